package services

import "strings"

// FailureClass is the recognised category of a failed provider call.
type FailureClass string

const (
	FailureInferenceProfileRequired FailureClass = "inference_profile_required"
	FailureMarketplaceAccessDenied  FailureClass = "marketplace_access_denied"
	FailureUnsupportedImageContent  FailureClass = "unsupported_image_content"
	FailureOther                    FailureClass = "other"
)

// failureSignatures maps lower-cased message fragments to a class. Entries
// are tested in order and the first match wins.
var failureSignatures = []struct {
	class    FailureClass
	patterns []string
}{
	{FailureInferenceProfileRequired, []string{"inference profile"}},
	{FailureMarketplaceAccessDenied, []string{"marketplace", "access is denied", "subscribe"}},
	{FailureUnsupportedImageContent, []string{"could not process image", "unsupported image"}},
}

// ClassifyFailure matches the error message case-insensitively against the
// signature table. A nil error is FailureOther.
func ClassifyFailure(err error) FailureClass {
	if err == nil {
		return FailureOther
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range failureSignatures {
		for _, p := range sig.patterns {
			if strings.Contains(msg, p) {
				return sig.class
			}
		}
	}
	return FailureOther
}
