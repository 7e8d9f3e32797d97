package types

import "net/http"

// ErrorKind tells whether a failed remote call may be retried
type ErrorKind int

const (
	ErrorKindTransient ErrorKind = iota
	ErrorKindPermanent
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindPermanent:
		return "permanent"
	default:
		return "transient"
	}
}

// PermanentStatusCodes is the set of response codes for which a retry can not
// change the outcome. It is shared by release creation and asset upload.
var PermanentStatusCodes = map[int]struct{}{
	http.StatusBadRequest:          {},
	http.StatusUnauthorized:        {},
	http.StatusNotFound:            {},
	http.StatusUnprocessableEntity: {},
}

// ClassifyStatus maps a response code to its ErrorKind. Zero means no code was
// available and is treated as transient like any code outside the permanent set.
func ClassifyStatus(code int) ErrorKind {
	if _, ok := PermanentStatusCodes[code]; ok {
		return ErrorKindPermanent
	}
	return ErrorKindTransient
}
