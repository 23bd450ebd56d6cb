// Package device classifies a client from its user-agent string and locale hints.
//
// Probe is pure and never fails: anything it cannot recognise is reported as
// models.Unknown or as a generic desktop label.
package device

import (
	"regexp"
	"strings"

	"reviewdesk-backend-go/internal/models"
)

// MaxUserAgentLength is the number of user-agent characters kept on a login record.
const MaxUserAgentLength = 100

// Device types.
const (
	TypeMobile  = "mobile"
	TypeTablet  = "tablet"
	TypeDesktop = "desktop"
)

var samsungModels = map[string]string{
	"SM-G973": "Samsung Galaxy S10",
	"SM-G975": "Samsung Galaxy S10+",
	"SM-G981": "Samsung Galaxy S20",
	"SM-G986": "Samsung Galaxy S20+",
	"SM-G988": "Samsung Galaxy S20 Ultra",
	"SM-G991": "Samsung Galaxy S21",
	"SM-G996": "Samsung Galaxy S21+",
	"SM-G998": "Samsung Galaxy S21 Ultra",
	"SM-S901": "Samsung Galaxy S22",
	"SM-S906": "Samsung Galaxy S22+",
	"SM-S908": "Samsung Galaxy S22 Ultra",
	"SM-S911": "Samsung Galaxy S23",
	"SM-S916": "Samsung Galaxy S23+",
	"SM-S918": "Samsung Galaxy S23 Ultra",
	"SM-S921": "Samsung Galaxy S24",
	"SM-S928": "Samsung Galaxy S24 Ultra",
	"SM-N986": "Samsung Galaxy Note20 Ultra",
	"SM-A515": "Samsung Galaxy A51",
	"SM-A525": "Samsung Galaxy A52",
	"SM-A536": "Samsung Galaxy A53",
	"SM-A546": "Samsung Galaxy A54",
	"SM-F711": "Samsung Galaxy Z Flip3",
	"SM-F721": "Samsung Galaxy Z Flip4",
	"SM-F926": "Samsung Galaxy Z Fold3",
	"SM-F936": "Samsung Galaxy Z Fold4",
}

var oppoModels = map[string]string{
	"CPH2173": "OPPO Find X3 Pro",
	"CPH2207": "OPPO Find X3 Neo",
	"CPH2145": "OPPO Reno5",
	"CPH2247": "OPPO Reno6",
	"CPH2371": "OPPO Reno8",
	"CPH2211": "OPPO A74",
}

var onePlusModels = map[string]string{
	"A6003":  "OnePlus 6",
	"A6013":  "OnePlus 6T",
	"GM1913": "OnePlus 7",
	"HD1913": "OnePlus 7T Pro",
	"IN2013": "OnePlus 8",
	"KB2003": "OnePlus 8T",
	"LE2113": "OnePlus 9",
	"NE2213": "OnePlus 10 Pro",
}

var (
	samsungRe = regexp.MustCompile(`\b(SM-[A-Z]\d{3})[A-Z0-9]*`)
	oppoRe    = regexp.MustCompile(`\b(CPH\d{4})\b`)
	xiaomiRe  = regexp.MustCompile(`\b((?:Redmi|POCO|Xiaomi|Mi\s)[^;)]*?)(?:\s+Build|;|\))`)
	onePlusRe = regexp.MustCompile(`(?i)\bONEPLUS\s?([A-Z0-9]+)`)
	vivoRe    = regexp.MustCompile(`(?i)\b(vivo\s[^;)]+?|V\d{4}[A-Z]?)(?:\s+Build|;|\))`)
	androidRe = regexp.MustCompile(`Android\s[\d.]+;\s(?:[a-z]{2}[-_][A-Za-z]{2};\s)?([^;)]+?)(?:\s+Build|\))`)

	edgeRe    = regexp.MustCompile(`Edg(?:e|A|iOS)?/`)
	operaRe   = regexp.MustCompile(`OPR/|Opera`)
	samsungBr = regexp.MustCompile(`SamsungBrowser/`)
	firefoxRe = regexp.MustCompile(`Firefox/|FxiOS/`)
	chromeRe  = regexp.MustCompile(`Chrome/|CriOS/`)
	safariRe  = regexp.MustCompile(`Safari/`)
)

// Probe classifies a user-agent string. acceptLanguage is the raw Accept-Language header;
// only its first tag is kept.
func Probe(userAgent, acceptLanguage string) models.DeviceInfo {
	return models.DeviceInfo{
		DeviceType:  deviceType(userAgent),
		OS:          operatingSystem(userAgent),
		Browser:     browser(userAgent),
		DeviceModel: deviceModel(userAgent),
		UserAgent:   truncate(userAgent, MaxUserAgentLength),
		Language:    primaryLanguage(acceptLanguage),
	}
}

func deviceType(ua string) string {
	switch {
	case ua == "":
		return models.Unknown
	case strings.Contains(ua, "iPad"), strings.Contains(ua, "Tablet"), samsungTablet(ua):
		return TypeTablet
	case strings.Contains(ua, "Android") && !strings.Contains(ua, "Mobi"):
		return TypeTablet
	case strings.Contains(ua, "Mobi"), strings.Contains(ua, "iPhone"), strings.Contains(ua, "Android"):
		return TypeMobile
	default:
		return TypeDesktop
	}
}

func samsungTablet(ua string) bool {
	m := samsungRe.FindStringSubmatch(ua)
	if m == nil {
		return false
	}
	return strings.HasPrefix(m[1], "SM-T") || strings.HasPrefix(m[1], "SM-X")
}

func operatingSystem(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "iPad"):
		return "iPadOS"
	case strings.Contains(ua, "iPhone"), strings.Contains(ua, "iPod"):
		return "iOS"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "CrOS"):
		return "ChromeOS"
	case strings.Contains(ua, "Mac OS X"), strings.Contains(ua, "Macintosh"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	default:
		return models.Unknown
	}
}

// browser checks the most specific tokens first: Edge, Opera and Samsung Internet all
// advertise Chrome and Safari too.
func browser(ua string) string {
	switch {
	case edgeRe.MatchString(ua):
		return "Edge"
	case operaRe.MatchString(ua):
		return "Opera"
	case samsungBr.MatchString(ua):
		return "Samsung Internet"
	case firefoxRe.MatchString(ua):
		return "Firefox"
	case chromeRe.MatchString(ua):
		return "Chrome"
	case safariRe.MatchString(ua):
		return "Safari"
	default:
		return models.Unknown
	}
}

func deviceModel(ua string) string {
	if m := samsungRe.FindStringSubmatch(ua); m != nil {
		if name, ok := samsungModels[m[1]]; ok {
			return name
		}
		if strings.HasPrefix(m[1], "SM-T") || strings.HasPrefix(m[1], "SM-X") {
			return "Samsung Galaxy Tab (" + m[1] + ")"
		}
		return "Samsung Galaxy (" + m[1] + ")"
	}
	if m := oppoRe.FindStringSubmatch(ua); m != nil {
		if name, ok := oppoModels[m[1]]; ok {
			return name
		}
		return "OPPO " + m[1]
	}
	if strings.Contains(ua, "iPhone") {
		return "iPhone"
	}
	if strings.Contains(ua, "iPad") {
		return "iPad"
	}
	if m := onePlusRe.FindStringSubmatch(ua); m != nil {
		code := strings.ToUpper(m[1])
		if name, ok := onePlusModels[code]; ok {
			return name
		}
		return "OnePlus " + code
	}
	if m := xiaomiRe.FindStringSubmatch(ua); m != nil {
		model := strings.TrimSpace(m[1])
		if strings.HasPrefix(model, "Xiaomi") {
			return model
		}
		return "Xiaomi " + model
	}
	if m := vivoRe.FindStringSubmatch(ua); m != nil {
		model := strings.TrimSpace(m[1])
		if strings.HasPrefix(strings.ToLower(model), "vivo ") {
			model = model[len("vivo "):]
		}
		return "Vivo " + model
	}
	if m := androidRe.FindStringSubmatch(ua); m != nil {
		model := strings.TrimSpace(m[1])
		if model != "" && model != "K" { // reduced user-agents report "K"
			return model
		}
		return "Android device"
	}
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows PC"
	case strings.Contains(ua, "Macintosh"):
		return "Mac"
	case strings.Contains(ua, "CrOS"):
		return "Chromebook"
	case strings.Contains(ua, "Linux"):
		return "Linux PC"
	}
	return models.Unknown
}

func primaryLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return ""
	}
	first := strings.SplitN(acceptLanguage, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return strings.TrimSpace(first)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Avoid cutting a multi-byte rune in half.
	cut := n
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut]
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
