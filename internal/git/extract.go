package git

import (
	"context"
	"strings"

	"github.com/ShayCichocki/observer/internal/extract"
	"github.com/ShayCichocki/observer/internal/validation"
	"github.com/ShayCichocki/observer/pkg/models"
)

// CommitExtractor returns an ExtractFunc reading ref from r.
//
// The first attempt uses owner. When a previous attempt failed on the owner
// field, later attempts fall back to the commit author.
func CommitExtractor(r Reader, ref, owner string) validation.ExtractFunc {
	return func(ctx context.Context, attempt validation.Attempt) (models.Extracted, error) {
		info, err := r.Commit(ctx, ref)
		if err != nil {
			return nil, err
		}

		o := owner
		if attempt.IsRetry() && mentionsOwner(attempt.PreviousErrors) {
			o = info.Author
		}
		return extract.Commit(info.Message, o, info.Date), nil
	}
}

func mentionsOwner(errs []string) bool {
	for _, e := range errs {
		if strings.Contains(strings.ToLower(e), "owner") {
			return true
		}
	}
	return false
}
