package config

import (
	"os"
	"path/filepath"
	"sync"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/creasty/defaults"
	"gopkg.in/yaml.v2"

	"github.com/priyxstudio/treesize/treesize"
)

// DefaultLocation is set dynamically based on the platform
var DefaultLocation = GetDefaultConfigLocation()

var (
	mu            sync.RWMutex
	_config       *Configuration
	_debugViaFlag bool
)

// Locker specific to writing the configuration to the disk.
var _writeLock sync.Mutex

// ScanConfiguration controls how directory trees are traversed.
type ScanConfiguration struct {
	// Threads is the number of subdirectories of any single directory that are
	// read at the same time. Nested directories each get their own allowance,
	// so the total can be higher. Values below 1 use the number of CPUs.
	Threads int `default:"0" json:"threads" yaml:"threads"`

	// If set to false only the files directly inside the target are counted.
	Recursive bool `default:"true" json:"recursive" yaml:"recursive"`

	// GlobalLimit caps the number of directories being read at once across the
	// whole tree. 0 disables the cap.
	GlobalLimit int `default:"0" json:"global_limit" yaml:"global_limit"`

	// OnError is either "skip", which counts unreadable directories as empty and
	// reports them as warnings, or "abort", which stops at the first one.
	OnError string `default:"skip" json:"on_error" yaml:"on_error"`

	// The amount of time in seconds the whole computation may take. 0 means no
	// limit.
	Timeout int `default:"0" json:"timeout" yaml:"timeout"`
}

// OutputConfiguration controls how the result is printed.
type OutputConfiguration struct {
	// Human prints sizes like "1.5MiB" instead of mebibytes with two decimals.
	Human bool `default:"false" json:"human" yaml:"human"`

	// ShowVolume appends the share of the containing volume used by the tree.
	ShowVolume bool `default:"false" json:"show_volume" yaml:"show_volume"`

	// JSON prints a report object with the counters and failures instead of a
	// single size line. Human and ShowVolume are ignored when it is set.
	JSON bool `default:"false" json:"json" yaml:"json"`
}

type Configuration struct {
	// The location from which this configuration instance was instantiated.
	path string

	// Determines if treesize should log at debug level. This value is ignored
	// if the debug flag is passed through the command line arguments.
	Debug bool `json:"debug" yaml:"debug"`

	Scan   ScanConfiguration   `json:"scan" yaml:"scan"`
	Output OutputConfiguration `json:"output" yaml:"output"`
}

// NewAtPath creates a new struct and set the path where it should be stored.
// This function does not modify the currently stored global configuration.
func NewAtPath(path string) (*Configuration, error) {
	var c Configuration
	// Configures the default values for many of the configuration options present
	// in the structs. Values set in the configuration file take priority over the
	// default values.
	if err := defaults.Set(&c); err != nil {
		return nil, err
	}
	// Track the location where we created this configuration.
	c.path = path
	return &c, nil
}

// Set the global configuration instance. This is a blocking operation such that
// anything trying to set a different configuration value, or read the configuration
// will be paused until it is complete.
func Set(c *Configuration) {
	mu.Lock()
	defer mu.Unlock()
	_config = c
}

// SetDebugViaFlag tracks if the application is running in debug mode because of
// a command line flag argument. If so we do not want to store that configuration
// change to the disk.
func SetDebugViaFlag(d bool) {
	mu.Lock()
	defer mu.Unlock()
	_config.Debug = d
	_debugViaFlag = d
}

// Get returns the global configuration instance. This is a thread-safe operation
// that will block if the configuration is presently being modified.
//
// Be aware that you CANNOT make modifications to the currently stored configuration
// by modifying the struct returned by this function. The only way to make
// modifications is by using the Update() function and passing data through in
// the callback.
func Get() *Configuration {
	mu.RLock()
	// Create a copy of the struct so that all modifications made beyond this
	// point are immutable.
	c := *_config
	mu.RUnlock()
	return &c
}

// Update performs an in-situ update of the global configuration object using
// a thread-safe mutex lock. This is the correct way to make modifications to
// the global configuration.
func Update(callback func(c *Configuration)) {
	mu.Lock()
	defer mu.Unlock()
	callback(_config)
}

// Path returns the file path where this configuration is stored.
func (c *Configuration) Path() string {
	return c.path
}

// Validate checks the values that cannot be expressed through struct tags.
func (c *Configuration) Validate() error {
	if _, err := treesize.ParseFailurePolicy(c.Scan.OnError); err != nil {
		return errors.WrapIf(err, "config: invalid scan.on_error")
	}
	if c.Scan.GlobalLimit < 0 {
		return errors.Errorf("config: scan.global_limit must not be negative, got %d", c.Scan.GlobalLimit)
	}
	if c.Scan.Timeout < 0 {
		return errors.Errorf("config: scan.timeout must not be negative, got %d", c.Scan.Timeout)
	}
	return nil
}

// FailurePolicy returns the parsed form of Scan.OnError. Validate should have
// been called first, an invalid value falls back to skipping.
func (c *Configuration) FailurePolicy() treesize.FailurePolicy {
	p, _ := treesize.ParseFailurePolicy(c.Scan.OnError)
	return p
}

// WriteToDisk writes the configuration to the disk. This is a thread safe operation
// and will only allow one write at a time. Additional calls while writing are
// queued up.
func WriteToDisk(c *Configuration) error {
	_writeLock.Lock()
	defer _writeLock.Unlock()

	ccopy := *c
	// If debugging is set with the flag, don't save that to the configuration file,
	// otherwise you'll always end up in debug mode.
	if _debugViaFlag {
		ccopy.Debug = false
	}
	if c.path == "" {
		return errors.New("config: cannot write configuration, no path defined in struct")
	}
	b, err := yaml.Marshal(&ccopy)
	if err != nil {
		return errors.Wrap(err, "config: failed to marshal configuration")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return errors.Wrap(err, "config: failed to create configuration directory")
	}
	if err := os.WriteFile(c.path, b, 0o644); err != nil {
		return errors.Wrap(err, "config: failed to write configuration")
	}
	return nil
}

// FromFile reads the configuration from the provided file and stores it in the
// global singleton for this instance.
func FromFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c, err := NewAtPath(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return errors.Wrap(err, "config: failed to parse configuration file")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	// Store this configuration in the global state.
	Set(c)
	return nil
}

// Load reads the configuration at path into the global singleton. A missing
// file is only an error when the path was given explicitly, otherwise the
// defaults are used.
func Load(path string, explicit bool) error {
	err := FromFile(path)
	if err == nil {
		return nil
	}
	if explicit || !errors.Is(err, os.ErrNotExist) {
		return errors.WrapIf(err, "config: failed to load configuration")
	}

	log.WithField("path", path).Debug("no configuration file found, using defaults")
	c, err := NewAtPath(path)
	if err != nil {
		return err
	}
	Set(c)
	return nil
}
