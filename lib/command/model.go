package command

import (
	"fmt"

	"github.com/ValentinKolb/hKV/lib/kv"
)

// --------------------------------------------------------------------------
// Request Structure
// --------------------------------------------------------------------------

// Request is a single command sent by a client. Exactly one of the variant
// fields must be set, a request without (or with more than one) variant is
// an invalid command.
type Request struct {
	Hget    *Hget    `json:"hget,omitempty"`
	Hgetall *Hgetall `json:"hgetall,omitempty"`
	Hset    *Hset    `json:"hset,omitempty"`
	Hdel    *Hdel    `json:"hdel,omitempty"`
	Hexist  *Hexist  `json:"hexist,omitempty"`
}

// Hget reads the value of a key
type Hget struct {
	Table string `json:"table"`
	Key   string `json:"key"`
}

// Hgetall reads all pairs of a table
type Hgetall struct {
	Table string `json:"table"`
}

// Hset writes a pair, Pair is required
type Hset struct {
	Table string     `json:"table"`
	Pair  *kv.Kvpair `json:"pair,omitempty"`
}

// Hdel removes a key
type Hdel struct {
	Table string `json:"table"`
	Key   string `json:"key"`
}

// Hexist checks whether a key exists
type Hexist struct {
	Table string `json:"table"`
	Key   string `json:"key"`
}

// --------------------------------------------------------------------------
// Request Factory Functions
// --------------------------------------------------------------------------

// NewHget creates a new Hget request
func NewHget(table, key string) *Request {
	return &Request{Hget: &Hget{Table: table, Key: key}}
}

// NewHgetall creates a new Hgetall request
func NewHgetall(table string) *Request {
	return &Request{Hgetall: &Hgetall{Table: table}}
}

// NewHset creates a new Hset request
func NewHset(table, key string, value kv.Value) *Request {
	pair := kv.NewKvpair(key, value)
	return &Request{Hset: &Hset{Table: table, Pair: &pair}}
}

// NewHdel creates a new Hdel request
func NewHdel(table, key string) *Request {
	return &Request{Hdel: &Hdel{Table: table, Key: key}}
}

// NewHexist creates a new Hexist request
func NewHexist(table, key string) *Request {
	return &Request{Hexist: &Hexist{Table: table, Key: key}}
}

// --------------------------------------------------------------------------
// Request Helper
// --------------------------------------------------------------------------

// variants returns the number of set variant fields
func (r *Request) variants() int {
	n := 0
	for _, set := range []bool{r.Hget != nil, r.Hgetall != nil, r.Hset != nil, r.Hdel != nil, r.Hexist != nil} {
		if set {
			n++
		}
	}
	return n
}

// Validate returns an InvalidCommand error if not exactly one variant is set.
func (r *Request) Validate() error {
	if r == nil {
		return kv.NewInvalidCommandError("empty request")
	}
	switch r.variants() {
	case 1:
		return nil
	case 0:
		return kv.NewInvalidCommandError("request has no command")
	default:
		return kv.NewInvalidCommandError("request has more than one command")
	}
}

// Name returns the name of the active variant (used for logs and metrics).
func (r *Request) Name() string {
	if r == nil || r.variants() != 1 {
		return "invalid"
	}
	switch {
	case r.Hget != nil:
		return "hget"
	case r.Hgetall != nil:
		return "hgetall"
	case r.Hset != nil:
		return "hset"
	case r.Hdel != nil:
		return "hdel"
	default:
		return "hexist"
	}
}

func (r *Request) String() string {
	if r == nil {
		return "Request{}"
	}
	switch {
	case r.variants() != 1:
		return fmt.Sprintf("Request{%s}", r.Name())
	case r.Hget != nil:
		return fmt.Sprintf("Hget{table: %s, key: %s}", r.Hget.Table, r.Hget.Key)
	case r.Hgetall != nil:
		return fmt.Sprintf("Hgetall{table: %s}", r.Hgetall.Table)
	case r.Hset != nil:
		if r.Hset.Pair == nil {
			return fmt.Sprintf("Hset{table: %s, pair: none}", r.Hset.Table)
		}
		return fmt.Sprintf("Hset{table: %s, key: %s, value: %s}", r.Hset.Table, r.Hset.Pair.Key, r.Hset.Pair.Value)
	case r.Hdel != nil:
		return fmt.Sprintf("Hdel{table: %s, key: %s}", r.Hdel.Table, r.Hdel.Key)
	default:
		return fmt.Sprintf("Hexist{table: %s, key: %s}", r.Hexist.Table, r.Hexist.Key)
	}
}
