package github

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
)

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

// statusCoder is implemented by errors that know their response code
type statusCoder interface {
	StatusCode() int
}

// Classify turns a raw failure from a release API call into a
// ClassifiedError. The kind depends only on the response code; a failure
// without one is transient.
func Classify(err error) *model.ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *model.ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	code, message := extractStatus(err)
	return &model.ClassifiedError{
		Kind:       types.ClassifyStatus(code),
		StatusCode: code,
		Message:    humanMessage(err, code, message),
		Cause:      err,
	}
}

func extractStatus(err error) (int, string) {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return responseCode(errResp.Response), errResp.Message
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return responseCode(rateErr.Response), rateErr.Message
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return responseCode(abuseErr.Response), abuseErr.Message
	}

	var coder statusCoder
	if errors.As(err, &coder) {
		return coder.StatusCode(), ""
	}

	return 0, ""
}

func responseCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func humanMessage(err error, code int, message string) string {
	if message == "" {
		message = errorString(err)
	}
	message = lineBreaks.ReplaceAllString(message, " ")

	if code == 0 {
		return message
	}
	return fmt.Sprintf("%d %s (%s)", code, http.StatusText(code), message)
}

// errorString falls back to the error's type name if Error() panics, which
// happens with partially populated provider error values.
func errorString(err error) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%T", err)
		}
	}()
	return err.Error()
}
