package upload_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goroads/kerbside/core/upload"
)

func TestClassify(t *testing.T) {
	type testCase struct {
		Description string
		Err         error
		Expect      upload.Kind
	}
	var testCases = []testCase{
		{
			Description: "access denied maps to authorization",
			Err:         errors.New("Access Denied."),
			Expect:      upload.KindAuthorization,
		},
		{
			Description: "forbidden maps to authorization",
			Err:         errors.New("403 Forbidden"),
			Expect:      upload.KindAuthorization,
		},
		{
			Description: "checksum mismatch maps to integrity",
			Err:         errors.New("checksum mismatch on part 1"),
			Expect:      upload.KindIntegrity,
		},
		{
			Description: "bad digest maps to integrity",
			Err:         errors.New("the Content-Md5 digest did not match"),
			Expect:      upload.KindIntegrity,
		},
		{
			Description: "connection refused maps to transport",
			Err:         errors.New("dial tcp 127.0.0.1:9000: connection refused"),
			Expect:      upload.KindTransport,
		},
		{
			Description: "cors failure maps to transport",
			Err:         errors.New("CORS preflight rejected"),
			Expect:      upload.KindTransport,
		},
		{
			Description: "timeout maps to transport",
			Err:         errors.New("request timeout exceeded"),
			Expect:      upload.KindTransport,
		},
		{
			Description: "anything else passes through as unknown",
			Err:         errors.New("weird storage hiccup"),
			Expect:      upload.KindUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			classified := upload.Classify(tc.Err)
			require.NotNil(t, classified)
			assert.Equal(t, tc.Expect, classified.Kind)
			assert.ErrorIs(t, classified, tc.Err)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, upload.Classify(nil))
	})

	t.Run("pre-classified errors pass through untouched", func(t *testing.T) {
		original := &upload.Error{Kind: upload.KindIntegrity, Err: errors.New("store says so")}
		assert.Same(t, original, upload.Classify(original))
	})
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("raw collaborator message")

	for kind, fragment := range map[upload.Kind]string{
		upload.KindAuthorization: "permission denied",
		upload.KindTransport:     "network error",
		upload.KindIntegrity:     "file corruption",
		upload.KindUnknown:       "raw collaborator message",
	} {
		t.Run(string(kind), func(t *testing.T) {
			err := &upload.Error{Kind: kind, Err: cause}
			assert.Contains(t, err.Message(), fragment)
			assert.Contains(t, err.Error(), "photo upload failed")
		})
	}

	t.Run("validation errors carry their own reason", func(t *testing.T) {
		err := &upload.Error{Kind: upload.KindValidation, Reason: "file too large, maximum size is 10MB"}
		assert.Equal(t, "file too large, maximum size is 10MB", err.Message())
	})

	t.Run("messages are distinct across kinds", func(t *testing.T) {
		seen := map[string]upload.Kind{}
		for _, kind := range []upload.Kind{
			upload.KindValidation, upload.KindAuthorization,
			upload.KindTransport, upload.KindIntegrity, upload.KindUnknown,
		} {
			err := &upload.Error{Kind: kind, Reason: "some reason", Err: cause}
			msg := err.Message()
			if prev, ok := seen[msg]; ok {
				t.Fatalf("kinds %s and %s render the same message %q", prev, kind, msg)
			}
			seen[msg] = kind
		}
	})
}
