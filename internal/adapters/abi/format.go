package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FormatValue renders a decoded ABI value for humans
func FormatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "<nil>"
	case *big.Int:
		return value.String()
	case common.Address:
		return value.Hex()
	case common.Hash:
		return value.Hex()
	case []byte:
		return hexutil.Encode(value)
	case string:
		return value
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array:
		// bytesN and fixed uint8 arrays both decode to [N]byte
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		return formatList(rv)
	case reflect.Slice:
		return formatList(rv)
	case reflect.Struct:
		parts := make([]string, rv.NumField())
		for i := range parts {
			parts[i] = FormatValue(rv.Field(i).Interface())
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case reflect.Ptr:
		if rv.IsNil() {
			return "<nil>"
		}
		return FormatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func formatList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = FormatValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
