package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// foundryArtifact is the part of a Foundry artifact JSON the loader reads
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
	Metadata struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

type foundryBytecode struct {
	Object         string                     `json:"object"`
	LinkReferences map[string]json.RawMessage `json:"linkReferences"`
}

// candidate is an artifact file found under the out directory
type candidate struct {
	path   string // relative to the project root
	source string // e.g. Counter.sol
	name   string // e.g. Counter
}

func (c candidate) key() string {
	return c.source + ":" + c.name
}

// FoundryLoader resolves artifact references against a Foundry out directory.
// A reference is a path to an artifact JSON, a contract name, or File.sol:Name.
type FoundryLoader struct {
	projectRoot string
	outDir      string
	log         *slog.Logger
}

// NewFoundryLoader creates a loader for the configured project
func NewFoundryLoader(cfg *config.RuntimeConfig, log *slog.Logger) *FoundryLoader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = filepath.Join(cfg.ProjectRoot, "out")
	}
	return &FoundryLoader{
		projectRoot: cfg.ProjectRoot,
		outDir:      outDir,
		log:         log.With("component", "artifacts"),
	}
}

// Load resolves ref and parses the artifact it points to
func (l *FoundryLoader) Load(ctx context.Context, ref string) (*domain.Artifact, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("artifact reference is empty: %w", domain.ErrNotFound)
	}

	if strings.HasSuffix(ref, ".json") {
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.projectRoot, path)
		}
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		return l.parse(path, name)
	}

	match, err := l.find(ref)
	if err != nil {
		return nil, err
	}
	l.log.Debug("resolved artifact", "ref", ref, "path", match.path)
	return l.parse(filepath.Join(l.projectRoot, match.path), match.name)
}

func (l *FoundryLoader) find(ref string) (*candidate, error) {
	sourceRef, name, qualified := strings.Cut(ref, ":")
	if !qualified {
		name, sourceRef = ref, ""
	}

	all, err := l.scan()
	if err != nil {
		return nil, err
	}

	matches := lo.Filter(all, func(c candidate, _ int) bool {
		if c.name != name {
			return false
		}
		return sourceRef == "" || c.source == filepath.Base(sourceRef)
	})

	// A qualified reference with a directory narrows by compilation target.
	if len(matches) > 1 && strings.Contains(sourceRef, "/") {
		targeted := lo.Filter(matches, func(c candidate, _ int) bool {
			return l.compilationTarget(c) == sourceRef
		})
		if len(targeted) > 0 {
			matches = targeted
		}
	}

	switch len(matches) {
	case 0:
		return nil, l.notFound(ref, all)
	case 1:
		return &matches[0], nil
	default:
		return nil, domain.AmbiguousArtifactErr{
			Ref:     ref,
			Matches: lo.Map(matches, func(c candidate, _ int) string { return c.key() + " (" + c.path + ")" }),
		}
	}
}

// scan lists every contract artifact under the out directory
func (l *FoundryLoader) scan() ([]candidate, error) {
	if _, err := os.Stat(l.outDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("artifact directory %s does not exist, run forge build first: %w", l.outDir, domain.ErrNotFound)
	}

	var found []candidate
	err := filepath.WalkDir(l.outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".json") || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		rel, err := filepath.Rel(l.projectRoot, path)
		if err != nil {
			rel = path
		}
		found = append(found, candidate{
			path:   rel,
			source: filepath.Base(filepath.Dir(path)),
			name:   strings.TrimSuffix(d.Name(), ".json"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.outDir, err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })
	return found, nil
}

func (l *FoundryLoader) compilationTarget(c candidate) string {
	data, err := os.ReadFile(filepath.Join(l.projectRoot, c.path))
	if err != nil {
		return ""
	}
	var artifact foundryArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return ""
	}
	for source, name := range artifact.Metadata.Settings.CompilationTarget {
		if name == c.name {
			return source
		}
	}
	return ""
}

func (l *FoundryLoader) notFound(ref string, all []candidate) error {
	names := lo.Uniq(lo.Map(all, func(c candidate, _ int) string { return c.name }))
	suggestions := lo.Map(fuzzy.Find(ref, names), func(m fuzzy.Match, _ int) string { return m.Str })
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	if len(suggestions) == 0 {
		return fmt.Errorf("artifact %q not found in %s: %w", ref, l.outDir, domain.ErrNotFound)
	}
	return fmt.Errorf("artifact %q not found in %s (did you mean %s?): %w",
		ref, l.outDir, strings.Join(suggestions, ", "), domain.ErrNotFound)
}

// parse reads a Foundry artifact file
func (l *FoundryLoader) parse(path, name string) (*domain.Artifact, error) {
	data, err := os.ReadFile(path) //nolint:gosec // artifact path from the project
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("artifact %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var artifact foundryArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	contractABI, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI in artifact %s: %w", path, err)
	}

	bytecode, err := parseBytecode(artifact.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	rel, err := filepath.Rel(l.projectRoot, path)
	if err != nil {
		rel = path
	}
	return &domain.Artifact{
		Name:     name,
		Path:     rel,
		ABI:      contractABI,
		Bytecode: bytecode,
	}, nil
}

// parseBytecode accepts Foundry's {"object": ...} form and a bare hex string
func parseBytecode(raw json.RawMessage) ([]byte, error) {
	var bc foundryBytecode
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &bc.Object); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
	} else if len(raw) > 0 {
		if err := json.Unmarshal(raw, &bc); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
	}

	if len(bc.LinkReferences) > 0 || strings.Contains(bc.Object, "__$") {
		libraries := lo.Keys(bc.LinkReferences)
		sort.Strings(libraries)
		return nil, fmt.Errorf("bytecode has unlinked library references %v", libraries)
	}

	object := bc.Object
	if object != "" && !strings.HasPrefix(object, "0x") {
		object = "0x" + object
	}
	// Interfaces and abstract contracts have no bytecode. They can still be
	// attached to a deployed address; deploying them fails later.
	if object == "" || object == "0x" {
		return nil, nil
	}

	code, err := hexutil.Decode(object)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	return code, nil
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactLoader = (*FoundryLoader)(nil)
