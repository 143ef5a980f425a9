package meowid

import (
	"fmt"
	"strconv"
	"sync"
	"time"
)

// MeowID Format:
// Timestamp (41-bits)
// Node ID (11-bits)
// Increment (11-bits)

type MeowID = int64

const MeowerEpoch int64 = 1577836800000 // 2020-01-01 12am GMT

const (
	TimestampBits = 41
	TimestampMask = (1 << TimestampBits) - 1

	NodeIdBits = 11
	NodeIdMask = (1 << NodeIdBits) - 1

	IncrementBits = 11
	IncrementMask = (1 << IncrementBits) - 1
)

// Generator hands out unique ids for one node.
type Generator struct {
	mu     sync.Mutex
	nodeId int64
	lastTs int64
	incr   int64
	now    func() time.Time
}

func NewGenerator(nodeId int64) (*Generator, error) {
	if nodeId < 0 || nodeId > NodeIdMask {
		return nil, fmt.Errorf("meowid: node id %d out of range", nodeId)
	}
	return &Generator{nodeId: nodeId, now: time.Now}, nil
}

func (g *Generator) Next() MeowID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.now().UnixMilli()
	if ts < g.lastTs {
		// clock went backwards, keep ids increasing
		ts = g.lastTs
	}
	if ts != g.lastTs {
		g.lastTs = ts
		g.incr = 0
	} else if g.incr >= IncrementMask {
		for ts <= g.lastTs {
			ts = g.now().UnixMilli()
		}
		g.lastTs = ts
		g.incr = 0
	} else {
		g.incr++
	}

	id := (ts - MeowerEpoch) << (NodeIdBits + IncrementBits)
	id |= g.nodeId << IncrementBits
	id |= g.incr
	return id
}

var defaultGen, _ = NewGenerator(0)

// Init sets the node id used by GenId.
func Init(nodeId string) error {
	if nodeId == "" {
		return nil
	}
	n, err := strconv.ParseInt(nodeId, 10, 64)
	if err != nil {
		return err
	}
	g, err := NewGenerator(n)
	if err != nil {
		return err
	}
	defaultGen = g
	return nil
}

func GenId() MeowID {
	return defaultGen.Next()
}

func Extract(id MeowID) struct {
	Timestamp int64
	NodeId    int64
	Increment int64
} {
	return struct {
		Timestamp int64
		NodeId    int64
		Increment int64
	}{
		Timestamp: ((id >> (NodeIdBits + IncrementBits)) & TimestampMask) + MeowerEpoch,
		NodeId:    (id >> IncrementBits) & NodeIdMask,
		Increment: id & IncrementMask,
	}
}
