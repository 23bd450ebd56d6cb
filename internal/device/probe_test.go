package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"reviewdesk-backend-go/internal/models"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name       string
		ua         string
		wantType   string
		wantOS     string
		wantModel  string
		wantBrowse string
	}{
		{
			name:       "samsung galaxy s21",
			ua:         "Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "Samsung Galaxy S21",
			wantBrowse: "Chrome",
		},
		{
			name:       "samsung internet on unknown galaxy",
			ua:         "Mozilla/5.0 (Linux; Android 12; SM-M127F) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/20.0 Chrome/106.0.5249.126 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "Samsung Galaxy (SM-M127)",
			wantBrowse: "Samsung Internet",
		},
		{
			name:       "galaxy tab",
			ua:         "Mozilla/5.0 (Linux; Android 11; SM-T870) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0 Safari/537.36",
			wantType:   TypeTablet,
			wantOS:     "Android",
			wantModel:  "Samsung Galaxy Tab (SM-T870)",
			wantBrowse: "Chrome",
		},
		{
			name:       "oppo",
			ua:         "Mozilla/5.0 (Linux; Android 11; CPH2173) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "OPPO Find X3 Pro",
			wantBrowse: "Chrome",
		},
		{
			name:       "iphone safari",
			ua:         "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
			wantType:   TypeMobile,
			wantOS:     "iOS",
			wantModel:  "iPhone",
			wantBrowse: "Safari",
		},
		{
			name:       "ipad",
			ua:         "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/119.0 Mobile/15E148 Safari/604.1",
			wantType:   TypeTablet,
			wantOS:     "iPadOS",
			wantModel:  "iPad",
			wantBrowse: "Chrome",
		},
		{
			name:       "xiaomi redmi",
			ua:         "Mozilla/5.0 (Linux; Android 11; Redmi Note 10 Pro Build/RKQ1.200826.002) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/96.0 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "Xiaomi Redmi Note 10 Pro",
			wantBrowse: "Chrome",
		},
		{
			name:       "oneplus",
			ua:         "Mozilla/5.0 (Linux; Android 10; ONEPLUS A6003) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/88.0 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "OnePlus 6",
			wantBrowse: "Chrome",
		},
		{
			name:       "vivo",
			ua:         "Mozilla/5.0 (Linux; Android 12; vivo 1938) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/104.0 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "Vivo 1938",
			wantBrowse: "Chrome",
		},
		{
			name:       "pixel",
			ua:         "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36",
			wantType:   TypeMobile,
			wantOS:     "Android",
			wantModel:  "Pixel 8",
			wantBrowse: "Chrome",
		},
		{
			name:       "windows edge",
			ua:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			wantType:   TypeDesktop,
			wantOS:     "Windows",
			wantModel:  "Windows PC",
			wantBrowse: "Edge",
		},
		{
			name:       "mac firefox",
			ua:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
			wantType:   TypeDesktop,
			wantOS:     "macOS",
			wantModel:  "Mac",
			wantBrowse: "Firefox",
		},
		{
			name:       "unrecognized",
			ua:         "curl/8.4.0",
			wantType:   TypeDesktop,
			wantOS:     models.Unknown,
			wantModel:  models.Unknown,
			wantBrowse: models.Unknown,
		},
		{
			name:       "empty",
			ua:         "",
			wantType:   models.Unknown,
			wantOS:     models.Unknown,
			wantModel:  models.Unknown,
			wantBrowse: models.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Probe(tt.ua, "")
			assert.Equal(t, tt.wantType, got.DeviceType, "device type")
			assert.Equal(t, tt.wantOS, got.OS, "os")
			assert.Equal(t, tt.wantModel, got.DeviceModel, "model")
			assert.Equal(t, tt.wantBrowse, got.Browser, "browser")
		})
	}
}

func TestProbe_TruncatesUserAgent(t *testing.T) {
	ua := "Mozilla/5.0 (Linux; Android 13; SM-G991B) " + strings.Repeat("x", 200)
	got := Probe(ua, "")
	assert.Len(t, got.UserAgent, MaxUserAgentLength)
	assert.Equal(t, ua[:MaxUserAgentLength], got.UserAgent)
}

func TestProbe_Deterministic(t *testing.T) {
	ua := "Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36"
	assert.Equal(t, Probe(ua, "en-US"), Probe(ua, "en-US"))
}

func TestProbe_Language(t *testing.T) {
	got := Probe("curl/8.4.0", "pt-BR,pt;q=0.9,en;q=0.8")
	assert.Equal(t, "pt-BR", got.Language)
}

func TestTruncate_RuneBoundary(t *testing.T) {
	s := strings.Repeat("a", 99) + "é" // é is two bytes, straddling the limit
	assert.Equal(t, strings.Repeat("a", 99), truncate(s, 100))
}
