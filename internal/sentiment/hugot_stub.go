//go:build !(ORT || ALL)

package sentiment

import "errors"

// ErrEngineNotBuilt is returned for the hugot engine when the binary was
// built without the ORT tag. The ONNX runtime and tokenizers are cgo
// dependencies, so they are only linked in on request.
var ErrEngineNotBuilt = errors.New("hugot engine not built in, rebuild with -tags ORT")

func newHugotScorer(modelName, modelDir string) (Scorer, error) {
	return nil, ErrEngineNotBuilt
}
