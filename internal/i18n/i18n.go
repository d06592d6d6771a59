// Package i18n holds the user facing messages in English and Hindi.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	MsgCasesPermission    = "cases.permission"
	MsgCasesLoadFailed    = "cases.load_failed"
	MsgReportPermission   = "report.permission"
	MsgReportFailed       = "report.failed"
	MsgDonatePermission   = "donate.permission"
	MsgDonateFailed       = "donate.failed"
	MsgDonateSuccess      = "donate.success"
	MsgReportSuccess      = "report.success"
	MsgLoginRequired      = "auth.login_required"
	MsgInvalidCredentials = "auth.invalid_credentials"
	MsgEmailTaken         = "auth.email_taken"
	MsgSessionExpired     = "auth.session_expired"
	MsgCaseNotFound       = "case.not_found"
	MsgInvalidPayload     = "request.invalid_payload"
	MsgImageRequired      = "report.image_required"
	MsgInvalidAmount      = "donate.invalid_amount"
	MsgInternal           = "internal"
	MsgRateLimited        = "request.rate_limited"
)

var (
	english = language.English
	hindi   = language.Hindi
)

var messages = map[string]map[language.Tag]string{
	MsgCasesPermission: {
		english: "You don't have access to the rescue cases. Please sign in again.",
		hindi:   "आपको बचाव मामलों तक पहुँच नहीं है। कृपया फिर से साइन इन करें।",
	},
	MsgCasesLoadFailed: {
		english: "Could not load rescue cases. Please try again.",
		hindi:   "बचाव मामले लोड नहीं हो सके। कृपया फिर से प्रयास करें।",
	},
	MsgReportPermission: {
		english: "You need to be logged in to report a case.",
		hindi:   "मामला दर्ज करने के लिए लॉग इन करना आवश्यक है।",
	},
	MsgReportFailed: {
		english: "Could not submit the report. Please try again.",
		hindi:   "रिपोर्ट जमा नहीं हो सकी। कृपया फिर से प्रयास करें।",
	},
	MsgDonatePermission: {
		english: "You need to be logged in to donate.",
		hindi:   "दान करने के लिए लॉग इन करना आवश्यक है।",
	},
	MsgDonateFailed: {
		english: "Donation failed. Please try again.",
		hindi:   "दान विफल रहा। कृपया फिर से प्रयास करें।",
	},
	MsgDonateSuccess: {
		english: "Thank you! You donated ₹%d.",
		hindi:   "धन्यवाद! आपने ₹%d का दान किया।",
	},
	MsgReportSuccess: {
		english: "Case reported. Thank you for helping!",
		hindi:   "मामला दर्ज हो गया। मदद के लिए धन्यवाद!",
	},
	MsgLoginRequired: {
		english: "Please log in to continue.",
		hindi:   "जारी रखने के लिए कृपया लॉग इन करें।",
	},
	MsgInvalidCredentials: {
		english: "Invalid email or password.",
		hindi:   "ईमेल या पासवर्ड गलत है।",
	},
	MsgEmailTaken: {
		english: "An account with this email already exists.",
		hindi:   "इस ईमेल से एक खाता पहले से मौजूद है।",
	},
	MsgSessionExpired: {
		english: "Your session has expired. Please log in again.",
		hindi:   "आपका सत्र समाप्त हो गया है। कृपया फिर से लॉग इन करें।",
	},
	MsgCaseNotFound: {
		english: "This case does not exist.",
		hindi:   "यह मामला मौजूद नहीं है।",
	},
	MsgInvalidPayload: {
		english: "Some fields are missing or invalid.",
		hindi:   "कुछ फ़ील्ड अनुपस्थित या अमान्य हैं।",
	},
	MsgImageRequired: {
		english: "Please attach a photo of the animal.",
		hindi:   "कृपया जानवर की एक फ़ोटो संलग्न करें।",
	},
	MsgInvalidAmount: {
		english: "Please enter a valid amount.",
		hindi:   "कृपया एक मान्य राशि दर्ज करें।",
	},
	MsgInternal: {
		english: "Something went wrong. Please try again.",
		hindi:   "कुछ गलत हो गया। कृपया फिर से प्रयास करें।",
	},
	MsgRateLimited: {
		english: "Too many requests. Please slow down.",
		hindi:   "बहुत अधिक अनुरोध। कृपया थोड़ी देर बाद प्रयास करें।",
	},
}

// Supported lists the locales with a full catalog. The first is the fallback.
var Supported = []language.Tag{english, hindi}

var matcher = language.NewMatcher(Supported)

// Catalog renders messages for a locale.
type Catalog struct {
	cat catalog.Catalog
}

// New builds the catalog.
func New() *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(english))
	for key, byLang := range messages {
		for tag, msg := range byLang {
			_ = b.SetString(tag, key, msg)
		}
	}
	return &Catalog{cat: b}
}

// T renders key in locale. Unknown locales fall back to English.
func (c *Catalog) T(locale, key string, args ...any) string {
	p := message.NewPrinter(Normalize(locale), message.Catalog(c.cat))
	return p.Sprintf(key, args...)
}

// Normalize maps a locale or Accept-Language value to a supported tag.
func Normalize(locale string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return english
	}
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	for _, s := range Supported {
		if sb, _ := s.Base(); sb == base {
			return s
		}
	}
	return english
}

// Code returns the short code ("en" or "hi") of the supported locale for locale.
func Code(locale string) string {
	return Normalize(locale).String()
}
