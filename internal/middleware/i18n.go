package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"rescue/internal/i18n"
)

type localeContextKey struct{}

// Locale is the response language and the caller's country, when known.
type Locale struct {
	Language string
	Country  string
}

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// countryHeaders are set by CDNs and load balancers in front of the API.
var countryHeaders = []string{"X-Country-Code", "CF-IPCountry", "X-Appengine-Country"}

// I18N picks the response language ("en" or "hi") for every request and
// stores it with the caller's country in the request context.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			loc := Locale{Language: detectLocale(r, defaultLocale, country), Country: country}
			w.Header().Set("Content-Language", loc.Language)
			next.ServeHTTP(w, r.WithContext(ContextWithLocale(r.Context(), loc)))
		})
	}
}

// detectLocale prefers an explicit X-Locale, then Accept-Language, then the
// country (Hindi for India), then fallback.
func detectLocale(r *http.Request, fallback, country string) string {
	for _, h := range []string{"X-Locale", "Accept-Language"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return i18n.Code(v)
		}
	}
	switch {
	case country == "IN":
		return "hi"
	case country != "":
		return "en"
	case fallback != "":
		return i18n.Code(fallback)
	}
	return "en"
}

// ResolveCountry returns the caller's ISO 3166 country code, or "" when no
// hint is available. Proxy headers win over language regions, which win over
// the IP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, h := range countryHeaders {
		if c := canonicalCountry(r.Header.Get(h)); c != "" {
			return c
		}
	}
	for _, h := range []string{"X-Locale", "Accept-Language"} {
		if c := explicitRegion(r.Header.Get(h)); c != "" {
			return c
		}
	}
	if lookup == nil {
		return ""
	}
	ip := ClientIP(r)
	if ip == "" {
		return ""
	}
	code, err := lookup(ip)
	if err != nil {
		return ""
	}
	return canonicalCountry(code)
}

func canonicalCountry(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil {
		return ""
	}
	return region.String()
}

// explicitRegion returns the region written out in a language header.
// "hi" alone names no region even though x/text would guess IN.
func explicitRegion(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}

// ClientIP returns the first X-Forwarded-For hop, or the remote address.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func ContextWithLocale(ctx context.Context, loc Locale) context.Context {
	return context.WithValue(ctx, localeContextKey{}, loc)
}

// LocaleFromContext returns the response language, "en" when unset.
func LocaleFromContext(ctx context.Context) string {
	if loc, ok := ctx.Value(localeContextKey{}).(Locale); ok && loc.Language != "" {
		return loc.Language
	}
	return "en"
}

func CountryFromContext(ctx context.Context) string {
	loc, _ := ctx.Value(localeContextKey{}).(Locale)
	return loc.Country
}
