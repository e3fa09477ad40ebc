package workflows

import (
	"errors"

	"github.com/PolarWolf314/securehide/internal/audit"
	"github.com/PolarWolf314/securehide/internal/configs"
	kerrors "github.com/PolarWolf314/securehide/internal/errors"
)

// configOrDefault returns cfg, or the built-in defaults when cfg is nil.
func configOrDefault(cfg *configs.Config) *configs.Config {
	if cfg == nil {
		return configs.Default()
	}
	return cfg
}

// ErrorKind names the failure class of err for audit entries and API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, kerrors.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, kerrors.ErrAuthentication):
		return "authentication_failed"
	case errors.Is(err, kerrors.ErrTruncatedCarrier):
		return "truncated_carrier"
	case errors.Is(err, kerrors.ErrMalformedEnvelope):
		return "malformed_envelope"
	case errors.Is(err, kerrors.ErrUnsupportedFormat), errors.Is(err, kerrors.ErrInvalidImage):
		return "invalid_image"
	case errors.Is(err, kerrors.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, kerrors.ErrFileNotFound):
		return "file_not_found"
	case errors.Is(err, kerrors.ErrOutputExists):
		return "output_exists"
	default:
		return "internal"
	}
}

// logOutcome records entry as a success or a failure depending on err.
func logOutcome(entry audit.Entry, err error) {
	if err != nil {
		entry.Outcome = audit.OutcomeFailure
		entry.Error = ErrorKind(err)
	} else {
		entry.Outcome = audit.OutcomeSuccess
	}
	audit.Log(entry)
}
