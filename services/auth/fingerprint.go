// File: hotelpms/services/auth/fingerprint.go
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"hotelpms/models"
)

// Classifier derives a coarse OS and browser name from a client signature
// string. The default is a substring heuristic; a proper parser can be
// swapped in without touching the login flow.
type Classifier interface {
	Classify(signature string) (os, browser string)
}

// SubstringClassifier matches known tokens in the signature.
type SubstringClassifier struct{}

func (SubstringClassifier) Classify(signature string) (string, string) {
	return classifyOS(signature), classifyBrowser(signature)
}

func classifyOS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Mac"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iOS"), strings.Contains(ua, "iPhone"):
		return "iOS"
	default:
		return "Unknown OS"
	}
}

func classifyBrowser(ua string) string {
	switch {
	case strings.Contains(ua, "Chrome"):
		return "Chrome"
	case strings.Contains(ua, "Firefox"):
		return "Firefox"
	case strings.Contains(ua, "Safari"):
		return "Safari"
	case strings.Contains(ua, "Edge"):
		return "Edge"
	default:
		return "Unknown Browser"
	}
}

// Fingerprinter derives a stable device identity from a request's source IP
// and client signature. Pure: same inputs always produce the same device id,
// which is what makes a device recognizable across sessions.
type Fingerprinter struct {
	Classifier Classifier
}

// NewFingerprinter returns a Fingerprinter with the substring classifier.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{Classifier: SubstringClassifier{}}
}

// Fingerprint builds the device record for a connection. An empty signature
// still yields a deterministic (if generic) identity.
func (f *Fingerprinter) Fingerprint(ip, userAgent string) models.Device {
	sum := sha256.Sum256([]byte(ip + userAgent))
	os, browser := f.Classifier.Classify(userAgent)
	return models.Device{
		DeviceID:   hex.EncodeToString(sum[:]),
		DeviceName: os + " Device",
		IPAddress:  ip,
		UserAgent:  userAgent,
		OS:         os,
		Browser:    browser,
	}
}
