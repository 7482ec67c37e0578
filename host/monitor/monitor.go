// Package monitor talks to a drill controller over its telemetry link:
// it reads the message dictionary, sends commands by name and turns the
// device's reports into telemetry.Update values.
package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"soildrill/host/serial"
	"soildrill/protocol"
	"soildrill/telemetry"
)

var (
	ErrNoDictionary   = errors.New("monitor: dictionary not loaded")
	ErrUnknownCommand = errors.New("monitor: unknown command")
)

// maxChunks bounds dictionary retrieval against a device that never
// returns a short chunk.
const maxChunks = 1000

// Dictionary is the parsed device dictionary.
type Dictionary struct {
	Version   string            `json:"version"`
	Config    map[string]string `json:"config"`
	Commands  map[string]int    `json:"commands"`
	Responses map[string]int    `json:"responses"`
}

// Monitor is a connection to one controller.
type Monitor struct {
	tr  *protocol.HostTransport
	log zerolog.Logger

	mu       sync.RWMutex
	dict     *Dictionary
	raw      []byte
	commands map[string]uint16
	dec      *telemetry.Decoder

	updates chan telemetry.Update
	dropped uint64
}

// Connect opens the serial device and starts reading from it.
func Connect(cfg serial.Config, log zerolog.Logger) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	return New(port, log), nil
}

// New starts a monitor on an open port.
func New(port serial.Port, log zerolog.Logger) *Monitor {
	m := &Monitor{
		tr:      protocol.NewHostTransport(port),
		log:     log,
		updates: make(chan telemetry.Update, 256),
	}
	m.tr.SetResponseHandler(m.handleMessage)
	return m
}

// Updates delivers decoded reports once the dictionary is loaded. When the
// reader falls behind new updates are dropped.
func (m *Monitor) Updates() <-chan telemetry.Update {
	return m.updates
}

// RetrieveDictionary reads the dictionary in identify chunks and parses it.
func (m *Monitor) RetrieveDictionary() error {
	m.log.Info().Msg("retrieving dictionary")

	var raw []byte
	offset := uint32(0)
	for i := 0; i < maxChunks; i++ {
		chunk, err := m.identify(offset)
		if err != nil {
			return fmt.Errorf("dictionary chunk at %d: %w", offset, err)
		}
		raw = append(raw, chunk...)
		offset += uint32(len(chunk))
		if len(chunk) < telemetry.IdentifyChunk {
			break
		}
	}
	m.log.Debug().Int("bytes", len(raw)).Msg("dictionary retrieved")

	dict := &Dictionary{}
	if err := json.Unmarshal(raw, dict); err != nil {
		return fmt.Errorf("parse dictionary: %w", err)
	}
	commands := make(map[string]uint16, len(dict.Commands))
	for key, id := range dict.Commands {
		name, _, _ := strings.Cut(key, " ")
		commands[name] = uint16(id)
	}

	m.mu.Lock()
	m.dict = dict
	m.raw = raw
	m.commands = commands
	m.dec = telemetry.NewDecoder(dict.Responses)
	m.mu.Unlock()
	return nil
}

func (m *Monitor) identify(offset uint32) ([]byte, error) {
	err := m.tr.SendCommand(telemetry.IdentifyID, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, offset)
		protocol.EncodeVLQUint(out, telemetry.IdentifyChunk)
	})
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(time.Second)
	for {
		resp, err := m.tr.ReceiveResponse(time.Until(deadline))
		if err != nil {
			return nil, err
		}
		if resp.ID != telemetry.IdentifyResponseID {
			// reports that arrive before the dictionary cannot be decoded
			continue
		}
		args := resp.Args
		got, err := protocol.DecodeVLQUint(&args)
		if err != nil {
			return nil, err
		}
		if got != offset {
			return nil, fmt.Errorf("offset mismatch: expected %d, got %d", offset, got)
		}
		return protocol.DecodeVLQBytes(&args)
	}
}

func (m *Monitor) handleMessage(msg protocol.Message) {
	m.mu.RLock()
	dec := m.dec
	m.mu.RUnlock()
	if dec == nil || msg.ID == telemetry.IdentifyResponseID {
		return
	}

	u, err := dec.Decode(msg)
	if err != nil {
		m.log.Warn().Err(err).Uint16("id", msg.ID).Msg("undecodable message")
		return
	}
	select {
	case m.updates <- u:
	default:
		m.dropped++
		if m.dropped%100 == 1 {
			m.log.Warn().Uint64("dropped", m.dropped).Msg("update queue full")
		}
	}
}

// Dictionary returns the loaded dictionary, or nil.
func (m *Monitor) Dictionary() *Dictionary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dict
}

// DictionaryRaw returns the dictionary JSON as received.
func (m *Monitor) DictionaryRaw() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.raw
}

// Constant returns a value from the dictionary config section.
func (m *Monitor) Constant(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.dict == nil {
		return "", false
	}
	v, ok := m.dict.Config[name]
	return v, ok
}

// LogDictionary writes a summary of the dictionary at info level.
func (m *Monitor) LogDictionary() {
	dict := m.Dictionary()
	if dict == nil {
		m.log.Warn().Msg("no dictionary loaded")
		return
	}
	m.log.Info().
		Str("version", dict.Version).
		Int("commands", len(dict.Commands)).
		Int("responses", len(dict.Responses)).
		Msg("device dictionary")

	keys := make([]string, 0, len(dict.Config))
	for k := range dict.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.log.Info().Str(k, dict.Config[k]).Msg("constant")
	}
}

// SendCommand sends a command by dictionary name and waits for its
// acknowledge.
func (m *Monitor) SendCommand(name string, args func(out protocol.OutputBuffer)) error {
	m.mu.RLock()
	loaded := m.dict != nil
	id, ok := m.commands[name]
	m.mu.RUnlock()
	if !loaded {
		return ErrNoDictionary
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return m.tr.SendCommand(id, args)
}

// RequestStatus asks for a drill_status report.
func (m *Monitor) RequestStatus() error {
	return m.SendCommand(telemetry.GetStatus, nil)
}

// DumpEvents asks the device to replay its event ring.
func (m *Monitor) DumpEvents() error {
	return m.SendCommand(telemetry.DumpEvents, nil)
}

// Close stops reading and closes the port.
func (m *Monitor) Close() error {
	return m.tr.Close()
}
