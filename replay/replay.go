package replay

import (
	"errors"
	"fmt"

	"footsies/fighter"
	"footsies/match"
	"footsies/rollback"

	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Version 当前回放格式版本
const Version = 1

var (
	ErrDesync   = errors.New("replay: checksum mismatch")
	ErrVersion  = errors.New("replay: unsupported version")
	ErrNotFound = errors.New("replay: not found")
)

// Replay 一场对局的完整记录：规则 + 每帧两名玩家的输入（各 1 字节）+ 最终状态校验和
type Replay struct {
	Version  int         `codec:"v"`
	Rules    match.Rules `codec:"rules"`
	Bots     [2]bool     `codec:"bots"`
	Inputs   []byte      `codec:"inputs"`
	Checksum uint64      `codec:"sum"`
}

// Frames 记录的帧数
func (r Replay) Frames() int { return len(r.Inputs) / 2 }

// Input 第 f 帧的输入
func (r Replay) Input(f int) [2]fighter.Input {
	return [2]fighter.Input{
		fighter.InputFromBits(r.Inputs[2*f]),
		fighter.InputFromBits(r.Inputs[2*f+1]),
	}
}

// Recorder 按帧号顺序收集定稿帧
type Recorder struct {
	r    Replay
	next int
}

func NewRecorder(rules match.Rules, bots [2]bool) *Recorder {
	return &Recorder{r: Replay{Version: Version, Rules: rules, Bots: bots}}
}

// Add 追加定稿帧；帧号必须连续
func (rec *Recorder) Add(frames ...rollback.Frame) error {
	for _, f := range frames {
		if f.Frame != rec.next {
			return fmt.Errorf("replay: frame %d out of order, want %d", f.Frame, rec.next)
		}
		rec.r.Inputs = append(rec.r.Inputs, f.Inputs[0].Bits(), f.Inputs[1].Bits())
		rec.next++
	}
	return nil
}

// Len 已记录的帧数
func (rec *Recorder) Len() int { return rec.next }

// Finish 以最终状态的校验和收尾
func (rec *Recorder) Finish(final match.Match) Replay {
	r := rec.r
	r.Inputs = append([]byte(nil), rec.r.Inputs...)
	r.Checksum = final.Checksum()
	return r
}

// Play 重新模拟整场对局，校验和不一致时返回 ErrDesync
func Play(r Replay) (match.Match, error) {
	if r.Version != Version {
		return match.Match{}, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	if len(r.Inputs)%2 != 0 {
		return match.Match{}, fmt.Errorf("replay: odd input length %d", len(r.Inputs))
	}
	m := match.New(r.Rules, r.Bots)
	for f := 0; f < r.Frames(); f++ {
		m.Step(r.Input(f))
	}
	if sum := m.Checksum(); sum != r.Checksum {
		return m, fmt.Errorf("%w: got %016x, recorded %016x", ErrDesync, sum, r.Checksum)
	}
	return m, nil
}

var mh = &codec.MsgpackHandle{}

func Encode(r Replay) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, mh).Encode(r); err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}
	return b, nil
}

func Decode(b []byte) (Replay, error) {
	var r Replay
	if err := codec.NewDecoderBytes(b, mh).Decode(&r); err != nil {
		return Replay{}, fmt.Errorf("replay: decode: %w", err)
	}
	return r, nil
}
