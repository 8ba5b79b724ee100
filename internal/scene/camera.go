package scene

import "github.com/ryanlewis/raycast/internal/common"

// Camera scans the scene once and returns its only camera.
// It fails with common.ErrNoCamera or common.ErrMultipleCameras, both of
// which wrap common.ErrCameraCount.
func (s *Scene) Camera() (Camera, error) {
	var (
		cam   Camera
		count int
	)
	if s != nil {
		for _, o := range s.objects {
			if c, ok := o.(*Camera); ok {
				cam = *c
				count++
			}
		}
	}

	switch {
	case count == 0:
		return Camera{}, common.ErrNoCamera
	case count > 1:
		return Camera{}, common.ErrMultipleCameras
	}
	return cam, nil
}
