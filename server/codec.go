// File: server/codec.go
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/net/websocket"
)

// errBadFrame marks a frame that arrived intact but did not decode. The
// connection stays usable after it.
var errBadFrame = errors.New("undecodable frame")

// JSONCodec sends text frames. It is websocket.JSON with decode failures
// wrapped in errBadFrame.
var JSONCodec = websocket.Codec{
	Marshal: func(v interface{}) ([]byte, byte, error) {
		data, err := json.Marshal(v)
		return data, websocket.TextFrame, err
	},
	Unmarshal: func(data []byte, _ byte, v interface{}) error {
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: %v", errBadFrame, err)
		}
		return nil
	},
}

// MsgpackCodec sends binary frames. Field names follow the json tags so both
// codecs produce the same document shape.
var MsgpackCodec = websocket.Codec{
	Marshal: func(v interface{}) ([]byte, byte, error) {
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(v); err != nil {
			return nil, websocket.BinaryFrame, err
		}
		return buf.Bytes(), websocket.BinaryFrame, nil
	},
	Unmarshal: func(data []byte, _ byte, v interface{}) error {
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", errBadFrame, err)
		}
		return nil
	},
}

// codecByName maps the codec query parameter. Empty means JSON.
func codecByName(name string) (websocket.Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec, nil
	case "msgpack":
		return MsgpackCodec, nil
	}
	return websocket.Codec{}, fmt.Errorf("unknown codec %q", name)
}
