package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Value patterns that look like credentials regardless of field name.
var (
	jwtPattern       = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// sensitiveFieldNames are redacted wherever they appear in a record.
// The service itself holds no credentials, but config structs and
// proxied headers can still carry them into log attributes.
var sensitiveFieldNames = []string{
	"password",
	"secret",
	"token",
	"apiKey",
	"apikey",
	"api_key",
	"accessToken",
	"access_token",
	"refreshToken",
	"refresh_token",
	"credential",
	"credentials",
	"authorization",
	"auth",
	"bearer",
	"cookie",
	"session",
	"privateKey",
	"private_key",
	"secretKey",
	"secret_key",
}

// DefaultRedactOptions returns the masq options applied to every log
// record. Callers can extend the list through NewReplaceAttr:
//
//	opts := append(logging.DefaultRedactOptions(),
//	    masq.WithFieldName("MySecretField"),
//	)
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFieldNames)+5)
	for _, name := range sensitiveFieldNames {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	)

	return opts
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data. Extra masq options are applied on top of
// DefaultRedactOptions.
//
//	opts := &slog.HandlerOptions{
//	    ReplaceAttr: logging.NewReplaceAttr(),
//	}
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
