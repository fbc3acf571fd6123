package configloader

import (
	"slices"

	"github.com/yaklabco/commonplace/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Strings and ints: override overwrites base if override is non-zero
//   - Pointers: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()
	src := override.Clone()

	mergePtr(&result.Render.HideDelimiters, src.Render.HideDelimiters)
	mergePtr(&result.Render.SubstituteTabs, src.Render.SubstituteTabs)
	mergePtr(&result.Render.ShowImages, src.Render.ShowImages)
	mergePtr(&result.Render.HideCloze, src.Render.HideCloze)
	mergeValue(&result.Render.ImageDir, src.Render.ImageDir)

	mergeValue(&result.Parse.MemoPolicy, src.Parse.MemoPolicy)
	mergePtr(&result.Parse.Verify, src.Parse.Verify)
	mergeSlice(&result.Parse.Extensions, src.Parse.Extensions)

	mergeValue(&result.Notes.Dir, src.Notes.Dir)
	mergeSlice(&result.Notes.Extensions, src.Notes.Extensions)
	mergeSlice(&result.Notes.Ignore, src.Notes.Ignore)

	mergeValue(&result.LogLevel, src.LogLevel)
	mergeValue(&result.Format, src.Format)
	mergeValue(&result.Color, src.Color)
	mergeValue(&result.Jobs, src.Jobs)

	return result
}

func mergeValue[T comparable](dst *T, src T) {
	var zero T
	if src != zero {
		*dst = src
	}
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func mergeSlice[T any](dst *[]T, src []T) {
	if src != nil {
		*dst = slices.Clone(src)
	}
}
