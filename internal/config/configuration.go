// Package config provides the coverage settings: the key/value configuration
// merged onto a job from the CI environment and the .coveralls.yml file, and
// the settings of the command line tool itself.
package config

import (
	"bytes"
	"encoding/json"
)

// Configuration is an ordered set of string parameters. A key may be present
// with a nil value, meaning the source did not provide it.
type Configuration struct {
	keys   []string
	params map[string]*string
}

// New creates an empty configuration.
func New() *Configuration {
	return &Configuration{params: make(map[string]*string)}
}

// Get returns the value of key. The boolean is false when the key is absent
// or nil.
func (c *Configuration) Get(key string) (string, bool) {
	v, ok := c.params[key]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Value returns the value of key, or the empty string.
func (c *Configuration) Value(key string) string {
	v, _ := c.Get(key)
	return v
}

// Has reports whether key holds a non-nil value.
func (c *Configuration) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set associates value to key.
func (c *Configuration) Set(key, value string) {
	c.put(key, &value)
}

// SetNil records key without a value.
func (c *Configuration) SetNil(key string) {
	c.put(key, nil)
}

func (c *Configuration) put(key string, value *string) {
	if _, ok := c.params[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.params[key] = value
}

// Delete removes key.
func (c *Configuration) Delete(key string) {
	if _, ok := c.params[key]; !ok {
		return
	}
	delete(c.params, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (c *Configuration) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of keys, nil values included.
func (c *Configuration) Len() int {
	return len(c.keys)
}

// Merge copies the entries of other into c. Nil values of other are
// ignored, other values overwrite by key.
func (c *Configuration) Merge(other *Configuration) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		if v := other.params[key]; v != nil {
			c.Set(key, *v)
		}
	}
}

// MarshalJSON encodes the configuration as an object in key order.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.params[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
