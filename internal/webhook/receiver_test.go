package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SolanaRemix/terminal/internal/models"
)

const testSecret = "s3cr3t"

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, cc models.CommandContext) error {
	args := m.Called(ctx, cc)
	return args.Error(0)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func commentPayload(action, body string) []byte {
	payload, _ := json.Marshal(map[string]any{
		"action":     action,
		"issue":      map[string]any{"number": 42},
		"comment":    map[string]any{"body": body},
		"repository": map[string]any{"full_name": "SolanaRemix/terminal"},
	})
	return payload
}

func newDelivery(event string, body []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, WebhookPath, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-GitHub-Delivery", "72d3162e-cc78-11e3-81ab-4c9367dc0958")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

func serve(rc *Receiver, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	rc.ServeHTTP(rec, req)
	return rec
}

func TestReceiver_Dispatch(t *testing.T) {
	t.Run("should dispatch a signed /terminal comment", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		dispatcher.On("Dispatch", mock.Anything, models.CommandContext{
			Body:        "  /terminal tag v2.0\n",
			Repo:        "SolanaRemix/terminal",
			IssueNumber: 42,
		}).Return(nil).Once()
		rc := NewReceiver(testSecret, dispatcher)
		body := commentPayload("created", "  /terminal tag v2.0\n")

		rec := serve(rc, newDelivery("issue_comment", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		dispatcher.AssertExpectations(t)
	})

	t.Run("should not cancel dispatch with the request", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		dispatcher.On("Dispatch", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				ctx := args.Get(0).(context.Context)
				assert.NoError(t, ctx.Err())
			}).
			Return(nil).Once()
		rc := NewReceiver(testSecret, dispatcher)
		body := commentPayload("created", "/terminal help")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := newDelivery("issue_comment", body, sign(testSecret, body)).WithContext(ctx)

		rec := serve(rc, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		dispatcher.AssertExpectations(t)
	})

	t.Run("should acknowledge when the command fails", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("github down")).Once()
		rc := NewReceiver(testSecret, dispatcher)
		body := commentPayload("created", "/terminal status")

		rec := serve(rc, newDelivery("issue_comment", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusOK, rec.Code)
		dispatcher.AssertExpectations(t)
	})

	t.Run("should accept form encoded deliveries", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(cc models.CommandContext) bool {
			return cc.Body == "/terminal merge"
		})).Return(nil).Once()
		rc := NewReceiver(testSecret, dispatcher)
		form := []byte(url.Values{"payload": {string(commentPayload("created", "/terminal merge"))}}.Encode())

		req := newDelivery("issue_comment", form, sign(testSecret, form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := serve(rc, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		dispatcher.AssertExpectations(t)
	})

	t.Run("should accept json with charset", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Once()
		rc := NewReceiver(testSecret, dispatcher)
		body := commentPayload("created", "/terminal help")

		req := newDelivery("issue_comment", body, sign(testSecret, body))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		rec := serve(rc, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		dispatcher.AssertExpectations(t)
	})
}

func TestReceiver_Ignores(t *testing.T) {
	tests := []struct {
		name  string
		event string
		body  []byte
	}{
		{"comment without prefix", "issue_comment", commentPayload("created", "random text")},
		{"prefix not at start", "issue_comment", commentPayload("created", "please run /terminal help")},
		{"edited comment", "issue_comment", commentPayload("edited", "/terminal merge")},
		{"deleted comment", "issue_comment", commentPayload("deleted", "/terminal merge")},
		{"ping event", "ping", []byte(`{"zen":"Keep it logically awesome.","hook_id":1}`)},
		{"push event", "push", []byte(`{"ref":"refs/heads/main"}`)},
	}

	for _, tt := range tests {
		t.Run("should ignore "+tt.name, func(t *testing.T) {
			dispatcher := &MockDispatcher{}
			rc := NewReceiver(testSecret, dispatcher)

			rec := serve(rc, newDelivery(tt.event, tt.body, sign(testSecret, tt.body)))

			assert.Equal(t, http.StatusOK, rec.Code)
			dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
		})
	}
}

func TestReceiver_Rejects(t *testing.T) {
	body := commentPayload("created", "/terminal merge")

	t.Run("should reject a signature made with another secret", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		rc := NewReceiver("other-secret", dispatcher)

		rec := serve(rc, newDelivery("issue_comment", body, sign(testSecret, body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("should reject a missing signature", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		rc := NewReceiver(testSecret, dispatcher)

		rec := serve(rc, newDelivery("issue_comment", body, ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("should reject unsigned deliveries when no secret is set", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		rc := NewReceiver("", dispatcher)

		rec := serve(rc, newDelivery("issue_comment", body, ""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject a tampered body", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		rc := NewReceiver(testSecret, dispatcher)
		tampered := commentPayload("created", "/terminal tag evil")

		rec := serve(rc, newDelivery("issue_comment", tampered, sign(testSecret, body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("should reject a malformed signature header", func(t *testing.T) {
		rc := NewReceiver(testSecret, &MockDispatcher{})

		rec := serve(rc, newDelivery("issue_comment", body, "sha256=not-hex"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("should reject signed deliveries without event or delivery headers", func(t *testing.T) {
		help := commentPayload("created", "/terminal help")
		for _, header := range []string{"X-GitHub-Event", "X-GitHub-Delivery"} {
			dispatcher := &MockDispatcher{}
			rc := NewReceiver(testSecret, dispatcher)
			req := newDelivery("issue_comment", help, sign(testSecret, help))
			req.Header.Del(header)

			rec := serve(rc, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
			dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
		}
	})

	t.Run("should reject malformed json", func(t *testing.T) {
		dispatcher := &MockDispatcher{}
		rc := NewReceiver(testSecret, dispatcher)
		broken := []byte(`{"action": "created", "comment": `)

		rec := serve(rc, newDelivery("issue_comment", broken, sign(testSecret, broken)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("should reject oversized payloads", func(t *testing.T) {
		rc := NewReceiver(testSecret, &MockDispatcher{})
		huge := bytes.Repeat([]byte("a"), MaxPayloadBytes+1)

		rec := serve(rc, newDelivery("issue_comment", huge, sign(testSecret, huge)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestSignature_SecretMismatch(t *testing.T) {
	secrets := []string{"a", "change-me", "S", "a much longer shared secret value"}
	body := commentPayload("created", "/terminal help")

	for _, s := range secrets {
		for _, other := range secrets {
			if s == other {
				continue
			}
			rc := NewReceiver(other, &MockDispatcher{})
			rec := serve(rc, newDelivery("ping", body, sign(s, body)))
			require.Equal(t, http.StatusUnauthorized, rec.Code, "signed with %q, verified with %q", s, other)
		}
	}
}
