package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, method, key string) int {
	req := httptest.NewRequest(method, "/api/v1/questions", nil)
	if key != "" {
		req.Header.Set("X-API-KEY", key)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w.Code
}

func TestWriteProtect_SafeMethodsPassWithoutKey(t *testing.T) {
	handler := WriteProtect(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		if code := doRequest(handler, method, ""); code != http.StatusOK {
			t.Errorf("%s without key: status = %d, want %d", method, code, http.StatusOK)
		}
	}
}

func TestWriteProtect_MutatingMethodsRequireKey(t *testing.T) {
	handler := WriteProtect(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if code := doRequest(handler, method, ""); code != http.StatusUnauthorized {
			t.Errorf("%s without key: status = %d, want %d", method, code, http.StatusUnauthorized)
		}
		if code := doRequest(handler, method, "secret"); code != http.StatusOK {
			t.Errorf("%s with valid key: status = %d, want %d", method, code, http.StatusOK)
		}
	}
}

func TestWriteProtect_InvalidKeyRejected(t *testing.T) {
	handler := WriteProtect(NewAuthConfigWithKeys([]string{"secret"}))(okHandler())

	if code := doRequest(handler, http.MethodPost, "wrong"); code != http.StatusUnauthorized {
		t.Errorf("POST with invalid key: status = %d, want %d", code, http.StatusUnauthorized)
	}
}

func TestWriteProtect_SecondKeyAccepted(t *testing.T) {
	handler := WriteProtect(NewAuthConfigWithKeys([]string{"primary", "rotating"}))(okHandler())

	if code := doRequest(handler, http.MethodPost, "rotating"); code != http.StatusOK {
		t.Errorf("POST with second key: status = %d, want %d", code, http.StatusOK)
	}
}

func TestWriteProtect_DisabledPassesAll(t *testing.T) {
	handler := WriteProtect(NewAuthConfigWithKeys(nil))(okHandler())

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		if code := doRequest(handler, method, ""); code != http.StatusOK {
			t.Errorf("%s with auth disabled: status = %d, want %d", method, code, http.StatusOK)
		}
	}
}

func TestNewAuthConfigWithKeys_IgnoresEmptyKeys(t *testing.T) {
	config := NewAuthConfigWithKeys([]string{"", ""})
	if config.Enabled() {
		t.Error("config with only empty keys should be disabled")
	}
}
