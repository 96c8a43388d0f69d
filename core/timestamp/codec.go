package timestamp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Format identifies one of the recognized on-disk timestamp representations.
type Format string

const (
	// FormatISO is an RFC3339 string, e.g. "2023-06-01T10:30:00Z".
	FormatISO Format = "iso"
	// FormatEpoch is an object holding epoch seconds and nanoseconds,
	// with either plain or underscore-prefixed keys.
	FormatEpoch Format = "epoch"
	// FormatTagged is the export format used by the document-database
	// admin tooling: {"__datatype__":"timestamp","value":{...}}.
	FormatTagged Format = "tagged"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatISO, FormatEpoch, FormatTagged:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown timestamp format %q (want iso, epoch or tagged)", s)
}

// epochPayload matches both {seconds,nanoseconds} and {_seconds,_nanoseconds}.
type epochPayload struct {
	Seconds      *int64 `json:"seconds,omitempty"`
	Nanoseconds  *int64 `json:"nanoseconds,omitempty"`
	USeconds     *int64 `json:"_seconds,omitempty"`
	UNanoseconds *int64 `json:"_nanoseconds,omitempty"`
}

func (p *epochPayload) resolve() (sec, nsec int64, ok bool) {
	switch {
	case p.USeconds != nil:
		sec = *p.USeconds
	case p.Seconds != nil:
		sec = *p.Seconds
	default:
		return 0, 0, false
	}
	if p.UNanoseconds != nil {
		nsec = *p.UNanoseconds
	} else if p.Nanoseconds != nil {
		nsec = *p.Nanoseconds
	}
	return sec, nsec, true
}

// taggedPayload matches the tagged datatype wrapper.
type taggedPayload struct {
	Datatype string        `json:"__datatype__"`
	Value    *epochPayload `json:"value"`
}

// Value is a timestamp together with the representation it was decoded from.
// The original bytes are kept and re-emitted verbatim until Convert is
// called, so an untouched record round-trips through load and save unchanged
// whatever its key spelling or sub-second precision. Unrecognized inputs
// (null, empty strings, free-form text) are carried through verbatim rather
// than rejected: dangling references are the job of the verifier, not the
// codec.
type Value struct {
	Time   time.Time
	Format Format

	// raw holds the input bytes. It is cleared by Convert, at which point
	// MarshalJSON renders the canonical form of Format instead.
	raw json.RawMessage
}

// Recognized reports whether the value holds a decoded timestamp, as opposed
// to verbatim passthrough of an unrecognized input.
func (v *Value) Recognized() bool {
	return v.Format != ""
}

// Convert switches the on-disk representation and drops the original bytes,
// so the next encode renders the canonical form of f. Passthrough values are
// left untouched since there is no decoded instant to re-encode.
func (v *Value) Convert(f Format) bool {
	if !v.Recognized() {
		return false
	}
	v.Format = f
	v.raw = nil
	return true
}

// UnmarshalJSON decodes any member of the recognized representation set. The
// input bytes are always retained so an unconverted value re-encodes exactly
// as it was read.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	v.raw = append(json.RawMessage(nil), data...)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			v.Time = t
			v.Format = FormatISO
			return nil
		}
	case '{':
		var tagged taggedPayload
		if err := json.Unmarshal(data, &tagged); err == nil &&
			tagged.Datatype == "timestamp" && tagged.Value != nil {
			if sec, nsec, ok := tagged.Value.resolve(); ok {
				v.Time = time.Unix(sec, nsec).UTC()
				v.Format = FormatTagged
				return nil
			}
		}
		var epoch epochPayload
		if err := json.Unmarshal(data, &epoch); err == nil {
			if sec, nsec, ok := epoch.resolve(); ok {
				v.Time = time.Unix(sec, nsec).UTC()
				v.Format = FormatEpoch
				return nil
			}
		}
	}

	// Not a recognized representation: passthrough only.
	return nil
}

// MarshalJSON re-emits the original bytes, or the canonical form of the
// current Format after a conversion dropped them.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	if v.Time.IsZero() {
		return []byte("null"), nil
	}

	sec := v.Time.Unix()
	nsec := int64(v.Time.Nanosecond())

	switch v.Format {
	case FormatEpoch:
		return fmt.Appendf(nil, `{"_seconds":%d,"_nanoseconds":%d}`, sec, nsec), nil
	case FormatTagged:
		return fmt.Appendf(nil,
			`{"__datatype__":"timestamp","value":{"_seconds":%d,"_nanoseconds":%d}}`, sec, nsec), nil
	default:
		// RFC3339Nano keeps whatever sub-second precision the instant has.
		return json.Marshal(v.Time.UTC().Format(time.RFC3339Nano))
	}
}
