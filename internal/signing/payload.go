// Package signing implements the HMAC scheme for one-tap review links.
package signing

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query parameter names used by one-tap links.
const (
	ParamName        = "name"
	ParamPhone       = "phone"
	ParamCountryCode = "countryCode"
	ParamRating      = "rating"
	ParamTrackingID  = "trackingId"
	ParamTimestamp   = "ts"
	ParamSignature   = "sig"
)

var ErrMalformedPayload = errors.New("malformed signed payload")

// Payload is the set of parameters embedded in a one-tap review link.
// It is ephemeral and never persisted.
type Payload struct {
	Name        string
	Phone       string
	CountryCode string
	Rating      int
	TrackingID  string
	IssuedAt    time.Time
}

// Canonical returns the canonical string the signature is computed over.
// The field order is fixed; changing it invalidates every link already
// issued, so any future change must version the format.
func (p Payload) Canonical() string {
	fields := []string{
		p.Name,
		p.Phone,
		p.CountryCode,
		strconv.Itoa(p.Rating),
		p.TrackingID,
		strconv.FormatInt(p.IssuedAt.Unix(), 10),
	}
	return strings.Join(fields, "|")
}

// Values encodes the payload as URL query values, without a signature.
func (p Payload) Values() url.Values {
	v := url.Values{}
	v.Set(ParamName, p.Name)
	v.Set(ParamPhone, p.Phone)
	v.Set(ParamCountryCode, p.CountryCode)
	v.Set(ParamRating, strconv.Itoa(p.Rating))
	v.Set(ParamTrackingID, p.TrackingID)
	v.Set(ParamTimestamp, strconv.FormatInt(p.IssuedAt.Unix(), 10))
	return v
}

// ParsePayload reconstructs a payload from query parameters.
// Returns ErrMalformedPayload if the rating or timestamp cannot be parsed;
// callers must treat that as untrusted input and fall back to the
// interactive form.
func ParsePayload(get func(key string) string) (Payload, error) {
	rating, err := strconv.Atoi(get(ParamRating))
	if err != nil {
		return Payload{}, ErrMalformedPayload
	}

	ts, err := strconv.ParseInt(get(ParamTimestamp), 10, 64)
	if err != nil {
		return Payload{}, ErrMalformedPayload
	}

	return Payload{
		Name:        get(ParamName),
		Phone:       get(ParamPhone),
		CountryCode: get(ParamCountryCode),
		Rating:      rating,
		TrackingID:  get(ParamTrackingID),
		IssuedAt:    time.Unix(ts, 0),
	}, nil
}
