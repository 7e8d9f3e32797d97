package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

// ClassifiedError is a failed remote call after classification. Kind decides
// whether the retry loop may try again.
type ClassifiedError struct {
	Kind       types.ErrorKind
	StatusCode int    // 0 when the failure carried no response code
	Message    string // single line, human readable
	Cause      error
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// IsPermanent reports whether retrying can not help
func (e *ClassifiedError) IsPermanent() bool {
	return e.Kind == types.ErrorKindPermanent
}

// RetriesExhaustedError is returned when a transient failure outlived the
// retry bound. Last is the classification of the final attempt.
type RetriesExhaustedError struct {
	Attempts int
	Last     *ClassifiedError
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %s", e.Attempts, e.Last.Message)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// DescribeFailure extracts the reason and permanence of an error returned by
// the retry executor. Errors of any other shape count as non permanent.
func DescribeFailure(err error) (reason string, permanent bool) {
	var exhausted *RetriesExhaustedError
	if errors.As(err, &exhausted) {
		return exhausted.Error(), false
	}
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Message, classified.IsPermanent()
	}
	return err.Error(), false
}

// ReleaseCreationError means the release could not be created; no asset
// upload is attempted after it.
type ReleaseCreationError struct {
	TagName   string
	Reason    string
	Permanent bool
	Cause     error
}

func (e *ReleaseCreationError) Error() string {
	return fmt.Sprintf("failed to create release %s (%s): %s", e.TagName, failureLabel(e.Permanent), e.Reason)
}

func (e *ReleaseCreationError) Unwrap() error {
	return e.Cause
}

// AssetUploadError is the failure of a single asset upload
type AssetUploadError struct {
	Path      string
	Name      string
	Reason    string
	Permanent bool
	Cause     error
}

func (e *AssetUploadError) Error() string {
	return fmt.Sprintf("failed to upload %s (%s): %s", e.Name, failureLabel(e.Permanent), e.Reason)
}

func (e *AssetUploadError) Unwrap() error {
	return e.Cause
}

// AggregateUploadError collects every failed upload of a concurrent phase
type AggregateUploadError struct {
	Total    int
	Failures []*AssetUploadError
}

func (e *AggregateUploadError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.Error())
	}
	return fmt.Sprintf("%d of %d asset uploads failed: %s", len(e.Failures), e.Total, strings.Join(msgs, "; "))
}

func (e *AggregateUploadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// FailedNames lists the asset names that failed
func (e *AggregateUploadError) FailedNames() []string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Name)
	}
	return names
}

func failureLabel(permanent bool) string {
	if permanent {
		return "permanent"
	}
	return "retries exhausted"
}
