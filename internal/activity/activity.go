// Package activity models a player's raw lifetime activity log: every solo
// completion and every team completion, as served by the per-player
// download endpoint in a compact msgpack payload.
package activity

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Race is one recorded solo completion.
type Race struct {
	Map       string
	Time      float64
	Timestamp int64
	Server    string
}

// TeamRace is one row of a team completion event. Rows sharing the same ID
// belong to one completion group; the ID is unique per event, not per
// player.
type TeamRace struct {
	ID        []byte
	Name      string
	Map       string
	Time      float64
	Timestamp int64
}

// Payload is the full per-player activity log.
type Payload struct {
	Races     []Race     `msgpack:"races"`
	TeamRaces []TeamRace `msgpack:"teamRaces"`
}

// The wire format packs each record as a positional array rather than a
// map, so the row types carry their own codecs.

var (
	_ msgpack.CustomEncoder = (*Race)(nil)
	_ msgpack.CustomDecoder = (*Race)(nil)
	_ msgpack.CustomEncoder = (*TeamRace)(nil)
	_ msgpack.CustomDecoder = (*TeamRace)(nil)
)

// EncodeMsgpack encodes the race as [Map, Time, Timestamp, Server].
func (r *Race) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := enc.EncodeString(r.Map); err != nil {
		return err
	}
	if err := enc.EncodeFloat64(r.Time); err != nil {
		return err
	}
	if err := enc.EncodeInt(r.Timestamp); err != nil {
		return err
	}
	return enc.EncodeString(r.Server)
}

// DecodeMsgpack decodes a [Map, Time, Timestamp, Server] array.
func (r *Race) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 4 {
		return fmt.Errorf("race record has %d fields, want 4", n)
	}
	if r.Map, err = dec.DecodeString(); err != nil {
		return err
	}
	if r.Time, err = dec.DecodeFloat64(); err != nil {
		return err
	}
	if r.Timestamp, err = dec.DecodeInt64(); err != nil {
		return err
	}
	r.Server, err = dec.DecodeString()
	return err
}

// EncodeMsgpack encodes the row as [ID, Name, Map, Time, Timestamp].
func (t *TeamRace) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(5); err != nil {
		return err
	}
	if err := enc.EncodeBytes(t.ID); err != nil {
		return err
	}
	if err := enc.EncodeString(t.Name); err != nil {
		return err
	}
	if err := enc.EncodeString(t.Map); err != nil {
		return err
	}
	if err := enc.EncodeFloat64(t.Time); err != nil {
		return err
	}
	return enc.EncodeInt(t.Timestamp)
}

// DecodeMsgpack decodes an [ID, Name, Map, Time, Timestamp] array.
func (t *TeamRace) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 5 {
		return fmt.Errorf("team race record has %d fields, want 5", n)
	}
	if t.ID, err = dec.DecodeBytes(); err != nil {
		return err
	}
	if t.Name, err = dec.DecodeString(); err != nil {
		return err
	}
	if t.Map, err = dec.DecodeString(); err != nil {
		return err
	}
	if t.Time, err = dec.DecodeFloat64(); err != nil {
		return err
	}
	t.Timestamp, err = dec.DecodeInt64()
	return err
}

// Decode unpacks a raw activity payload.
func Decode(data []byte) (*Payload, error) {
	var payload Payload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode activity payload: %w", err)
	}
	return &payload, nil
}

// Encode packs an activity payload into its wire form.
func Encode(payload *Payload) ([]byte, error) {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activity payload: %w", err)
	}
	return data, nil
}
