package request

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Credentials -- идентификация продавца в Ozon Seller API.
// Передаются один раз при создании Builder и дальше не меняются.
type Credentials struct {
	ClientID string
	APIKey   string
	BaseURL  string
}

var ErrIncompleteCredentials = errors.New("ozon credentials are incomplete")

func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client id")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "api key")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "api url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// host достаёт хост из BaseURL; для "https://api-seller.ozon.ru" это api-seller.ozon.ru.
func (c Credentials) host() (string, error) {
	u, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil {
		return "", fmt.Errorf("invalid api url %q: %w", c.BaseURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid api url %q: no host", c.BaseURL)
	}
	return u.Host, nil
}

// SetHeaders проставляет заголовки авторизации, которые ждёт Ozon.
func (c Credentials) SetHeaders(header http.Header, host string) {
	header.Set("Client-Id", c.ClientID)
	header.Set("Api-Key", c.APIKey)
	header.Set("Host", host)
	header.Set("Content-Type", "application/json")
}

// String не раскрывает ключ в логах.
func (c Credentials) String() string {
	return fmt.Sprintf("client_id=%s api_url=%s api_key=***", c.ClientID, c.BaseURL)
}
