package analyze

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/veritas/internal/model"
)

// TextAnalyzer scores article text.
// Implemented by the demo generator and by real inference backends.
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, in model.TextInput) (*model.TextResult, error)
}

// MediaAnalyzer scores an uploaded image or video
type MediaAnalyzer interface {
	AnalyzeMedia(ctx context.Context, file model.MediaFile) (*model.MediaResult, error)
}

// ErrRemoteAnalysis is returned for every remote failure: network, status or parse
var ErrRemoteAnalysis = errors.New("remote analysis failed")

// MediaRouter sends videos to one analyzer and images to another
type MediaRouter struct {
	Video MediaAnalyzer
	Image MediaAnalyzer
}

// AnalyzeMedia dispatches on the file's media type
func (r *MediaRouter) AnalyzeMedia(ctx context.Context, file model.MediaFile) (*model.MediaResult, error) {
	target := r.Image
	if file.MediaType() == model.MediaVideo {
		target = r.Video
	}
	if target == nil {
		return nil, fmt.Errorf("no analyzer configured for %s", file.MediaType())
	}
	return target.AnalyzeMedia(ctx, file)
}
