package consul

import (
	"fmt"
	"github.com/hashicorp/consul/api"
	"github.com/viant/tooring/service/store"
	"strings"
	"sync"
)

// DefaultPrefix is the KV folder holding all tooring entries
const DefaultPrefix = "tooring"

// Config represents consul connection settings
type Config struct {
	Address    string `json:"address,omitempty" yaml:"address,omitempty"`
	Datacenter string `json:"datacenter,omitempty" yaml:"datacenter,omitempty"`
	Token      string `json:"token,omitempty" yaml:"token,omitempty"`
	Prefix     string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// Store implements store.Store on top of the consul KV and session API
type Store struct {
	client *api.Client
	kv     *api.KV
	prefix string
	mux    sync.Mutex
	locks  map[string]*Lease
}

var _ store.Store = (*Store)(nil)

// Map returns the map stored under <prefix>/<name>/
func (s *Store) Map(name string) store.Map {
	return &Map{kv: s.kv, prefix: s.folder("map", name)}
}

// Locker returns the locker stored under <prefix>/lock/<name>/
func (s *Store) Locker(name string) store.Locker {
	return &Locker{store: s, prefix: s.folder("lock", name)}
}

// Counter returns the counter set stored under <prefix>/counter/<name>/
func (s *Store) Counter(name string) store.Counter {
	return &Counter{kv: s.kv, prefix: s.folder("counter", name)}
}

func (s *Store) folder(kind, name string) string {
	return s.prefix + "/" + kind + "/" + strings.Trim(name, "/") + "/"
}

// New creates a consul backed store
func New(config *Config) (*Store, error) {
	if config == nil {
		config = &Config{}
	}
	apiConfig := api.DefaultConfig()
	if config.Address != "" {
		apiConfig.Address = config.Address
	}
	if config.Datacenter != "" {
		apiConfig.Datacenter = config.Datacenter
	}
	if config.Token != "" {
		apiConfig.Token = config.Token
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}
	prefix := strings.Trim(config.Prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, kv: client.KV(), prefix: prefix, locks: make(map[string]*Lease)}, nil
}
