package nsoinv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/OpenCHAMI/nsoinv/internal/format"
	"github.com/OpenCHAMI/nsoinv/internal/util"
	"github.com/OpenCHAMI/nsoinv/pkg/client"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const (
	DefaultHostVarsDir   = "host_vars"
	DefaultInventoryPath = "inventory.yaml"
)

// ErrInvalidDeviceName is returned for device names that cannot be turned
// into a host_vars file name. Such devices are skipped like devices with a
// malformed config response.
var ErrInvalidDeviceName = errors.New("device name cannot be used as a file name")

// State tracks how far a generate run got.
type State int

const (
	StateUninitialized State = iota
	StateSynced
	StateEnumerating
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSynced:
		return "synced"
	case StateEnumerating:
		return "enumerating"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DeviceSource is the part of the NSO client that Generate() needs.
type DeviceSource interface {
	SyncFrom(ctx context.Context, devices ...string) (map[string]any, error)
	GetDeviceList(ctx context.Context) ([]string, error)
	GetDeviceConfig(ctx context.Context, device string) (map[string]any, error)
}

// NOTE: ...params were getting too long...
type GenerateParams struct {
	HostVarsDir   string
	InventoryPath string
	SkipSync      bool
	YAML          format.YAMLOptions
	// Out receives the human-readable progress lines. Nil discards them.
	Out io.Writer
}

func NewGenerateParams() *GenerateParams {
	return &GenerateParams{
		HostVarsDir:   DefaultHostVarsDir,
		InventoryPath: DefaultInventoryPath,
		YAML:          format.DefaultYAMLOptions(),
	}
}

type DeviceFailure struct {
	Device string
	Err    error
}

// Report summarises a generate run. Generated keeps the order in which
// devices succeeded.
type Report struct {
	State       State
	Generated   []string
	Failed      []DeviceFailure
	SyncResults []client.SyncResult
	HostVarsDir string
	Inventory   string
}

// Hosts returns the inventory host names: the generated devices in order
// of success, without repeats.
func (r *Report) Hosts() []string {
	return lo.Uniq(r.Generated)
}

var (
	infoLine = color.New(color.FgCyan)
	failLine = color.New(color.FgRed)
	doneLine = color.New(color.FgGreen)
)

// Generate() runs the whole pipeline: sync-from, list the devices, write one
// host_vars file per device and finally the inventory. A device whose config
// response is malformed is reported and skipped; every other error stops the
// run and is returned together with the partial report.
func Generate(ctx context.Context, src DeviceSource, params *GenerateParams) (*Report, error) {
	if params == nil {
		params = NewGenerateParams()
	}
	out := params.Out
	if out == nil {
		out = io.Discard
	}
	report := &Report{
		State:       StateUninitialized,
		HostVarsDir: params.HostVarsDir,
		Inventory:   params.InventoryPath,
	}

	if err := util.EnsureDirectory(params.HostVarsDir); err != nil {
		report.State = StateAborted
		return report, fmt.Errorf("failed to create host_vars directory: %w", err)
	}

	if params.SkipSync {
		log.Info().Msg("skipping sync-from")
	} else {
		infoLine.Fprintln(out, "Syncing configuration from devices")
		output, err := src.SyncFrom(ctx)
		if err != nil {
			report.State = StateAborted
			return report, err
		}
		report.SyncResults = client.ParseSyncResults(output)
		for _, result := range report.SyncResults {
			if !result.Result {
				log.Warn().Str("device", result.Device).Str("info", result.Info).Msg("sync-from failed for device")
			}
		}
	}
	report.State = StateSynced

	devices, err := src.GetDeviceList(ctx)
	if err != nil {
		report.State = StateAborted
		return report, err
	}
	log.Info().Int("count", len(devices)).Msg("found devices")
	report.State = StateEnumerating

	for _, device := range devices {
		infoLine.Fprintf(out, "Generating host_vars for %s\n", device)
		path, err := generateHostVars(ctx, src, params, device)
		if err != nil {
			if !isDeviceError(err) {
				return report, err
			}
			failLine.Fprintf(out, "Failed to parse JSON for %s\n", device)
			log.Warn().Err(err).Str("device", device).Msg("skipping device")
			report.Failed = append(report.Failed, DeviceFailure{Device: device, Err: err})
			continue
		}
		log.Debug().Str("device", device).Str("path", path).Msg("wrote host_vars")
		report.Generated = append(report.Generated, device)
	}

	if err := WriteInventory(params.InventoryPath, report.Hosts(), params.YAML); err != nil {
		return report, err
	}
	doneLine.Fprintf(out, "Wrote %d host(s) to %s\n", len(report.Hosts()), params.InventoryPath)
	report.State = StateDone
	return report, nil
}

func generateHostVars(ctx context.Context, src DeviceSource, params *GenerateParams, device string) (string, error) {
	path, err := HostVarsPath(params.HostVarsDir, device)
	if err != nil {
		return "", err
	}
	config, err := src.GetDeviceConfig(ctx, device)
	if err != nil {
		return "", err
	}
	if err := WriteHostVars(path, config, params.YAML); err != nil {
		return "", err
	}
	return path, nil
}

func isDeviceError(err error) bool {
	return client.IsMalformedResponse(err) || errors.Is(err, ErrInvalidDeviceName)
}

// HostVarsPath() returns dir/<device>.yaml, refusing names that would
// escape dir or are otherwise unusable as a file name.
func HostVarsPath(dir string, device string) (string, error) {
	if device == "" || device == "." || device == ".." ||
		strings.ContainsAny(device, `/\`+"\x00") {
		return "", fmt.Errorf("%q: %w", device, ErrInvalidDeviceName)
	}
	return filepath.Join(dir, device+".yaml"), nil
}

// WriteHostVars() writes {config: <config>} to path.
func WriteHostVars(path string, config map[string]any, opts format.YAMLOptions) error {
	b, err := format.MarshalYAML(format.MapSlice{{Key: "config", Value: config}}, opts)
	if err != nil {
		return fmt.Errorf("failed to marshal host_vars for %s: %w", path, err)
	}
	if err := util.WriteFileAtomic(path, b, util.DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write host_vars: %w", err)
	}
	return nil
}

// WriteInventory() writes {all: {hosts: {<host>: null, ...}}} to path with
// the hosts in the given order.
func WriteInventory(path string, hosts []string, opts format.YAMLOptions) error {
	entries := make(format.MapSlice, 0, len(hosts))
	for _, host := range hosts {
		entries = append(entries, format.MapItem{Key: host, Value: nil})
	}
	inventory := format.MapSlice{
		{Key: "all", Value: format.MapSlice{
			{Key: "hosts", Value: entries},
		}},
	}
	b, err := format.MarshalYAML(inventory, opts)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if err := util.WriteFileAtomic(path, b, util.DefaultFileMode); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	return nil
}
