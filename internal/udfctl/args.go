package udfctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/udfkit/udf-go/wire"
)

// parseArg reads one command-line argument as a JSON literal and converts it to a wire value.
// Integral numbers become Int, other numbers F64, objects Map with string keys in document order.
func parseArg(s string) (wire.Value, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()

	v, err := readJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", s, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("argument %q: trailing data", s)
	}
	return v, nil
}

func readJSON(dec *json.Decoder) (wire.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return wire.Nil{}, nil
	case bool:
		return wire.Bool(t), nil
	case string:
		return wire.String(t), nil
	case json.Number:
		return number(t)
	case json.Delim:
		switch t {
		case '[':
			arr := wire.Array{}
			for dec.More() {
				v, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			_, err := dec.Token()
			return arr, err
		case '{':
			m := wire.Map{}
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return nil, err
				}
				v, err := readJSON(dec)
				if err != nil {
					return nil, err
				}
				m = append(m, wire.Pair{Key: wire.String(key.(string)), Val: v})
			}
			_, err := dec.Token()
			return m, err
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func number(n json.Number) (wire.Value, error) {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return wire.IntOf(i), nil
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return wire.UintOf(u), nil
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		return nil, fmt.Errorf("number %s out of range", n)
	}
	return wire.F64(f), nil
}
