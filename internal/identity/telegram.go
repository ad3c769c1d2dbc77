// internal/identity/telegram.go
package identity

import (
	"fmt"
	"net/http"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"chads-social/internal/util"
)

// InitDataHeader is the header Telegram Mini App clients send their signed
// launch parameters in.
const InitDataHeader = "Telegram-Init-Data"

// TelegramVerifier validates Mini App init data signed with the bot token.
type TelegramVerifier struct {
	botToken string
	maxAge   time.Duration
}

// NewTelegramVerifier creates a verifier for botToken. A zero maxAge accepts
// init data of any age.
func NewTelegramVerifier(botToken string, maxAge time.Duration) *TelegramVerifier {
	return &TelegramVerifier{botToken: botToken, maxAge: maxAge}
}

func (v *TelegramVerifier) VerifyCaller(r *http.Request) (int64, error) {
	return v.Verify(r.Header.Get(InitDataHeader))
}

// Verify checks the init data signature and freshness and returns the user id.
func (v *TelegramVerifier) Verify(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing init data", util.ErrUnauthorized)
	}
	if err := initdata.Validate(raw, v.botToken, v.maxAge); err != nil {
		return 0, fmt.Errorf("%w: %w", util.ErrUnauthorized, err)
	}

	data, err := initdata.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", util.ErrUnauthorized, err)
	}
	if data.User.ID <= 0 {
		return 0, fmt.Errorf("%w: init data carries no user", util.ErrUnauthorized)
	}
	return data.User.ID, nil
}
