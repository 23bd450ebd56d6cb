package models

import "time"

// Login methods recorded on a LoginRecord.
const (
	LoginMethodEmail  = "email"
	LoginMethodGoogle = "google"
)

// Unknown is the placeholder for any device or location attribute that could not be determined.
const Unknown = "Unknown"

// LoginRecord is one entry of users/{uid}.loginHistory.
type LoginRecord struct {
	SessionID   string       `json:"sessionId" firestore:"sessionId"`
	Timestamp   time.Time    `json:"timestamp" firestore:"timestamp"`
	Device      DeviceInfo   `json:"device" firestore:"device"`
	Location    LocationInfo `json:"location" firestore:"location"`
	LoginMethod string       `json:"loginMethod" firestore:"loginMethod"`
	IsActive    bool         `json:"isActive" firestore:"isActive"`
}

// DeviceInfo is the result of classifying a user-agent string.
type DeviceInfo struct {
	DeviceType  string `json:"deviceType" firestore:"deviceType"`
	OS          string `json:"os" firestore:"os"`
	Browser     string `json:"browser" firestore:"browser"`
	DeviceModel string `json:"deviceModel" firestore:"deviceModel"`
	UserAgent   string `json:"userAgent" firestore:"userAgent"`
	Language    string `json:"language,omitempty" firestore:"language,omitempty"`
}

// LocationInfo describes where a login came from.
// Source names the provider that produced it ("ipapi", "ip-api", "ipinfo", "timezone" or "gps").
type LocationInfo struct {
	IP        string   `json:"ip" firestore:"ip"`
	City      string   `json:"city" firestore:"city"`
	Region    string   `json:"region" firestore:"region"`
	Country   string   `json:"country" firestore:"country"`
	Timezone  string   `json:"timezone" firestore:"timezone"`
	Accuracy  string   `json:"accuracy" firestore:"accuracy"`
	Source    string   `json:"source" firestore:"source"`
	Latitude  *float64 `json:"latitude,omitempty" firestore:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" firestore:"longitude,omitempty"`
}

// UnknownLocation returns a location with every field set to Unknown except the time zone.
func UnknownLocation(timeZone string) LocationInfo {
	if timeZone == "" {
		timeZone = Unknown
	}
	return LocationInfo{
		IP:       Unknown,
		City:     Unknown,
		Region:   Unknown,
		Country:  Unknown,
		Timezone: timeZone,
		Accuracy: "timezone",
		Source:   "timezone",
	}
}

// LoginEvent is published to the login events queue after every sign-in attempt that
// reaches the entitlement gate.
type LoginEvent struct {
	UID       string       `json:"uid"`
	Email     string       `json:"email"`
	SessionID string       `json:"sessionId,omitempty"`
	Method    string       `json:"loginMethod"`
	Allowed   bool         `json:"allowed"`
	Reason    string       `json:"reason,omitempty"`
	State     string       `json:"state"`
	Device    DeviceInfo   `json:"device"`
	Location  LocationInfo `json:"location"`
	Timestamp time.Time    `json:"timestamp"`
}
