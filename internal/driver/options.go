package driver

import "sync"

// optionStore is a mutex-guarded table of backend options with a fixed set
// of names, declared by the defaults it is created with.
type optionStore struct {
	mu     sync.Mutex
	values map[string]string
}

func newOptionStore(defaults map[string]string) *optionStore {
	values := make(map[string]string, len(defaults))
	for name, value := range defaults {
		values[name] = value
	}

	return &optionStore{values: values}
}

// set stores a value for a declared option name or returns a
// ConfigurationError for an unknown one.
func (s *optionStore) set(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.values[name]; !exists {
		return &ConfigurationError{
			Option: name,
			Value:  value,
			Reason: "unknown option",
		}
	}

	s.values[name] = value

	return nil
}

// get returns the value of a declared option name or a ConfigurationError
// for an unknown one.
func (s *optionStore) get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, exists := s.values[name]
	if !exists {
		return "", &ConfigurationError{
			Option: name,
			Reason: "unknown option",
		}
	}

	return value, nil
}
