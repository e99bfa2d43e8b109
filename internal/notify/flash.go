package notify

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/umsys/user-management-console/internal"
)

const flashCookie = "umc_flash"

// Flash is a per-request Notifier that persists notices in a cookie so they
// survive the redirect back to the list view. Notices pushed on a page that
// renders directly are read back with Notices before the response is written.
type Flash struct {
	w       http.ResponseWriter
	notices []Notice
}

func NewFlash(w http.ResponseWriter) *Flash {
	return &Flash{w: w}
}

func (f *Flash) Success(message string) {
	f.push(Notice{Level: LevelSuccess, Message: message})
}

func (f *Flash) Error(_ internal.ErrorKind, message string) {
	f.push(Notice{Level: LevelError, Message: message})
}

func (f *Flash) Notices() []Notice {
	return f.notices
}

func (f *Flash) push(n Notice) {
	f.notices = append(f.notices, n)
	if encoded, err := encodeNotices(f.notices); err == nil {
		http.SetCookie(f.w, &http.Cookie{
			Name:     flashCookie,
			Value:    encoded,
			Path:     "/",
			HttpOnly: true,
		})
	}
}

// Clear drops the pending cookie once the notices have been rendered inline.
func (f *Flash) Clear() {
	if len(f.notices) == 0 {
		return
	}
	expireCookie(f.w)
}

// Pop returns notices left behind by a previous request and expires the
// cookie carrying them.
func Pop(w http.ResponseWriter, r *http.Request) []Notice {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	expireCookie(w)

	raw, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var notices []Notice
	if err := json.Unmarshal(raw, &notices); err != nil {
		return nil
	}
	return notices
}

func encodeNotices(notices []Notice) (string, error) {
	raw, err := json.Marshal(notices)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

func expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
