package debug

// ObjectData describes one object as the parser finished it.
type ObjectData struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Fields int    `json:"fields"`
}

// WarningData carries a non-fatal parser diagnostic.
type WarningData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// SceneParsedData summarizes a completed parse.
type SceneParsedData struct {
	Objects  int            `json:"objects"`
	Kinds    map[string]int `json:"kinds"`
	Warnings int            `json:"warnings"`
	Lines    int            `json:"lines"`
}

// CameraData records the resolved camera and derived pixel size.
type CameraData struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	PixelWidth  float64 `json:"pixel_width"`
	PixelHeight float64 `json:"pixel_height"`
}

// RenderStartData contains information about the start of a render.
type RenderStartData struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Objects    int      `json:"objects"`
	Workers    int      `json:"workers"`
	Background [3]uint8 `json:"background"`
}

// RowData reports ray outcomes for one finished output row.
type RowData struct {
	Row      int            `json:"row"`
	Worker   int            `json:"worker"`
	Outcomes map[string]int `json:"outcomes"`
}

// RenderEndData contains information about the end of a render.
type RenderEndData struct {
	Pixels    int   `json:"pixels"`
	Hits      int   `json:"hits"`
	Misses    int   `json:"misses"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// WriteDoneData contains information about a completed image write.
type WriteDoneData struct {
	Format       string `json:"format"`
	Path         string `json:"path"`
	BytesWritten int64  `json:"bytes_written"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}
