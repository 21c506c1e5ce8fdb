package httpclient

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
)

// OAuth query parameters added to every signed request.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamNonce           = "oauth_nonce"
	ParamSignatureMethod = "oauth_signature_method"
	ParamTimestamp       = "oauth_timestamp"
	ParamVersion         = "oauth_version"

	SignatureMethod = "HMAC-SHA1"
	OAuthVersion    = "1.0"
)

// SignURL adds the OAuth parameters to query, sorts it and returns the full
// URL the signature is computed over.
func SignURL(u *url.URL, query url.Values, keys KeyPair, nonce uint32, timestamp int64) string {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(ParamConsumerKey, keys.Key)
	q.Set(ParamNonce, strconv.FormatUint(uint64(nonce), 10))
	q.Set(ParamSignatureMethod, SignatureMethod)
	q.Set(ParamTimestamp, strconv.FormatInt(timestamp, 10))
	q.Set(ParamVersion, OAuthVersion)

	signed := *u
	signed.RawQuery = q.Encode()
	return signed.String()
}

// Signature computes base64(HMAC-SHA1(md5hex(secret), FormEscape(fullURL))).
func Signature(fullURL, secret string) string {
	sum := md5.Sum([]byte(secret))
	mac := hmac.New(sha1.New, []byte(hex.EncodeToString(sum[:])))
	mac.Write([]byte(FormEscape(fullURL)))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// FormEscape form-encodes s the way the service does before signing: like
// url.QueryEscape, except that '~' is escaped and '*' is kept.
func FormEscape(s string) string {
	escaped := url.QueryEscape(s)
	if !strings.ContainsAny(s, "~*") {
		return escaped
	}
	// every '%' in escaped starts a triple, so "%2A" can only come from '*'
	return strings.NewReplacer("~", "%7E", "%2A", "*").Replace(escaped)
}

// AuthorizationHeader formats the Authorization header value.
func AuthorizationHeader(key, signature string) string {
	return `OAuth,oauth_consumer_key="` + key + `",oauth_signature="` + FormEscape(signature) + `"`
}

// ParseAuthorization extracts the consumer key and the unescaped signature
// from an Authorization header built by AuthorizationHeader.
func ParseAuthorization(header string) (key, signature string, ok bool) {
	rest, found := strings.CutPrefix(header, "OAuth,")
	if !found {
		return "", "", false
	}
	for _, part := range strings.Split(rest, ",") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"`)
		switch name {
		case ParamConsumerKey:
			key = value
		case "oauth_signature":
			sig, err := url.QueryUnescape(value)
			if err != nil {
				return "", "", false
			}
			signature = sig
		}
	}
	return key, signature, key != "" && signature != ""
}

// VerifySignature reports whether signature matches fullURL under secret.
func VerifySignature(fullURL, secret, signature string) bool {
	return hmac.Equal([]byte(Signature(fullURL, secret)), []byte(signature))
}

func newNonce() uint32 {
	return rand.Uint32()
}
