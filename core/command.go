package core

import (
	"errors"
	"sync"
)

var ErrUnknownCommand = errors.New("unknown command ID")

// CommandHandler handles one received command. It decodes its own
// arguments from data and advances the slice past them.
type CommandHandler func(data *[]byte) error

// Command is a registered host command or firmware response. Responses
// have a nil Handler.
type Command struct {
	ID      uint16
	Name    string
	Format  string // e.g. "cycle=%u phase=%c"
	Handler CommandHandler
}

// CommandRegistry assigns message IDs in registration order and builds the
// JSON dictionary the host uses to resolve them by name.
type CommandRegistry struct {
	mu        sync.RWMutex
	commands  []*Command // indexed by ID
	nameToID  map[string]uint16
	constants [][2]string
	version   string
	dict      []byte // cached, rebuilt after registration changes
}

// NewCommandRegistry creates an empty registry
func NewCommandRegistry(version string) *CommandRegistry {
	return &CommandRegistry{
		nameToID: make(map[string]uint16),
		version:  version,
	}
}

// Register adds a command and returns its ID. Registering a name twice
// returns the existing ID.
func (r *CommandRegistry) Register(name, format string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.nameToID[name]; ok {
		return id
	}
	id := uint16(len(r.commands))
	r.commands = append(r.commands, &Command{
		ID:      id,
		Name:    name,
		Format:  format,
		Handler: handler,
	})
	r.nameToID[name] = id
	r.dict = nil
	return id
}

// RegisterResponse registers a firmware to host message
func (r *CommandRegistry) RegisterResponse(name, format string) uint16 {
	return r.Register(name, format, nil)
}

// AddConstant publishes a name/value pair in the dictionary config section
func (r *CommandRegistry) AddConstant(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.constants {
		if r.constants[i][0] == name {
			r.constants[i][1] = value
			r.dict = nil
			return
		}
	}
	r.constants = append(r.constants, [2]string{name, value})
	r.dict = nil
}

// Get retrieves a command by ID
func (r *CommandRegistry) Get(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.commands) {
		return nil, false
	}
	return r.commands[id], true
}

// Lookup retrieves a command by name
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.commands[id], true
}

// Count returns the number of registered messages
func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Dispatch calls the handler registered for cmdID
func (r *CommandRegistry) Dispatch(cmdID uint16, data *[]byte) error {
	cmd, ok := r.Get(cmdID)
	if !ok || cmd.Handler == nil {
		return ErrUnknownCommand
	}
	return cmd.Handler(data)
}

// Dictionary returns the JSON dictionary:
//
//	{"version":"...","config":{...},"commands":{"name fmt":id},"responses":{...}}
func (r *CommandRegistry) Dictionary() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dict == nil {
		r.dict = r.buildLocked()
	}
	return r.dict
}

// DictionaryChunk returns up to count dictionary bytes starting at offset.
// An offset past the end yields an empty chunk.
func (r *CommandRegistry) DictionaryChunk(offset uint32, count uint8) []byte {
	dict := r.Dictionary()
	if offset >= uint32(len(dict)) {
		return nil
	}
	end := offset + uint32(count)
	if end > uint32(len(dict)) {
		end = uint32(len(dict))
	}
	return dict[offset:end]
}

func (r *CommandRegistry) buildLocked() []byte {
	out := make([]byte, 0, 1024)
	out = append(out, `{"version":`...)
	out = appendJSONString(out, r.version)

	out = append(out, `,"config":{`...)
	for i, c := range r.constants {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendJSONString(out, c[0])
		out = append(out, ':')
		out = appendJSONString(out, c[1])
	}

	out = append(out, `},"commands":{`...)
	out = r.appendMessagesLocked(out, true)
	out = append(out, `},"responses":{`...)
	out = r.appendMessagesLocked(out, false)
	out = append(out, `}}`...)
	return out
}

// appendMessagesLocked writes "name format":id pairs in ID order
func (r *CommandRegistry) appendMessagesLocked(out []byte, commands bool) []byte {
	first := true
	for _, cmd := range r.commands {
		if (cmd.Handler != nil) != commands {
			continue
		}
		if !first {
			out = append(out, ',')
		}
		first = false
		key := cmd.Name
		if cmd.Format != "" {
			key += " " + cmd.Format
		}
		out = appendJSONString(out, key)
		out = append(out, ':')
		out = append(out, Utoa(uint32(cmd.ID))...)
	}
	return out
}

func appendJSONString(out []byte, s string) []byte {
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			out = append(out, '\\', c)
		case c < 0x20:
			out = append(out, ' ')
		default:
			out = append(out, c)
		}
	}
	return append(out, '"')
}
