// Package inference runs a dependency parser exported to ONNX and exposes
// it as a tagger.Tagger.
//
// The model takes a single int64 input "word_ids" of shape [1, n] and
// produces three float32 outputs:
//
//	upos_logits   [1, n, len(upos)]
//	head_logits   [1, n, n+1]   column 0 is the artificial root
//	deprel_logits [1, n, len(deprel)]
//
// Label inventories and the word vocabulary are read from a YAML file; see
// LoadLabels.
package inference

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Model tensor names.
const (
	inputWordIDs = "word_ids"
	outputUPOS   = "upos_logits"
	outputHead   = "head_logits"
	outputDeprel = "deprel_logits"
)

// Logits holds the raw model outputs for one sentence of n words,
// flattened row-major with the batch dimension dropped.
type Logits struct {
	Words  int
	UPOS   []float32 // n * len(upos)
	Head   []float32 // n * (n+1)
	Deprel []float32 // n * len(deprel)
}

// Session wraps an ONNX Runtime session for parser inference.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputWordIDs},
		[]string{outputUPOS, outputHead, outputDeprel},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the model on one sentence of word ids.
func (s *Session) Infer(ctx context.Context, wordIDs []int64) (*Logits, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	n := int64(len(wordIDs))
	input, err := ort.NewTensor(ort.NewShape(1, n), wordIDs)
	if err != nil {
		return nil, fmt.Errorf("creating %s tensor: %w", inputWordIDs, err)
	}
	defer func() { _ = input.Destroy() }()

	// nil entries are allocated by Run
	outputs := []ort.Value{nil, nil, nil}
	if err := s.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				_ = o.Destroy()
			}
		}
	}()

	names := []string{outputUPOS, outputHead, outputDeprel}
	data := make([][]float32, len(outputs))
	for i, o := range outputs {
		t, ok := o.(*ort.Tensor[float32])
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a float32 tensor", ErrOutputShape, names[i])
		}
		// GetData aliases tensor memory that Destroy frees.
		data[i] = append([]float32(nil), t.GetData()...)
	}

	return &Logits{
		Words:  int(n),
		UPOS:   data[0],
		Head:   data[1],
		Deprel: data[2],
	}, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
