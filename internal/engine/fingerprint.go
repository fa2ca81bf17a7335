package engine

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// fingerprintValue renders a value into a canonical structural string. Map
// entries are emitted in sorted key order so that equal values always
// fingerprint identically; %#v would leak map iteration order into task keys.
func fingerprintValue(value any) string {
	var b strings.Builder
	writeFingerprint(&b, reflect.ValueOf(value), 0)
	return b.String()
}

const maxFingerprintDepth = 32

func writeFingerprint(b *strings.Builder, v reflect.Value, depth int) {
	if depth > maxFingerprintDepth {
		b.WriteString("...")
		return
	}
	if !v.IsValid() {
		b.WriteString("nil")
		return
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			b.WriteString("nil")
			return
		}
		writeFingerprint(b, v.Elem(), depth+1)
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		entries := make(map[string]reflect.Value, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			var kb strings.Builder
			writeFingerprint(&kb, iter.Key(), depth+1)
			keys = append(keys, kb.String())
			entries[kb.String()] = iter.Value()
		}
		sort.Strings(keys)
		b.WriteString("map{")
		for i, key := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(key)
			b.WriteByte(':')
			writeFingerprint(b, entries[key], depth+1)
		}
		b.WriteByte('}')
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			writeFingerprint(b, v.Index(i), depth+1)
		}
		b.WriteByte(']')
	case reflect.Struct:
		b.WriteString(v.Type().String())
		b.WriteByte('{')
		for i := 0; i < v.NumField(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(v.Type().Field(i).Name)
			b.WriteByte(':')
			if !v.Field(i).CanInterface() {
				fmt.Fprintf(b, "%v", v.Field(i))
				continue
			}
			writeFingerprint(b, v.Field(i), depth+1)
		}
		b.WriteByte('}')
	case reflect.String:
		fmt.Fprintf(b, "%q", v.String())
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
