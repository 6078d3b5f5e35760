package snowflake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Custom epoch: January 1, 2024 00:00:00 UTC.
const epoch int64 = 1704067200000

// Bit layout: 41 bits of milliseconds since the epoch, 10 bits of node ID,
// 12 bits of per-millisecond sequence.
const (
	nodeIDBits   = 10
	sequenceBits = 12

	maxNodeID   = (1 << nodeIDBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	nodeIDShift    = sequenceBits
	timestampShift = sequenceBits + nodeIDBits
)

// ID is a snowflake ID that marshals to/from JSON as a string.
type ID int64

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(id), 10))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n int64
		if nerr := json.Unmarshal(data, &n); nerr != nil {
			return fmt.Errorf("snowflake: cannot unmarshal %s: %w", string(data), err)
		}
		*id = ID(n)
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("snowflake: invalid id string %q: %w", s, err)
	}
	*id = ID(n)
	return nil
}

// Generator produces unique snowflake IDs for one node.
type Generator struct {
	mu       sync.Mutex
	nodeID   int64
	sequence int64
	lastTime int64
}

// NewGenerator creates a generator for the given node ID, in [0, 1023].
func NewGenerator(nodeID int64) (*Generator, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake: nodeID must be between 0 and %d", maxNodeID)
	}
	return &Generator{nodeID: nodeID}, nil
}

// Generate returns the next unique snowflake ID.
func (g *Generator) Generate() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli() - epoch

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// Sequence exhausted; spin until the next millisecond.
			for now <= g.lastTime {
				now = time.Now().UnixMilli() - epoch
			}
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	return ID((now << timestampShift) | (g.nodeID << nodeIDShift) | g.sequence)
}

// ExtractTimestamp returns the wall-clock time embedded in a snowflake ID.
func ExtractTimestamp(id int64) time.Time {
	return time.UnixMilli((id >> timestampShift) + epoch)
}
