package config

import (
	"bufio"
	"fmt"
	"github.com/hdt3213/resp/redis/parser"
	"gopkg.in/yaml.v3"
	"io"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

const DefaultConfPath = "resp.conf"

// Properties holds global config properties
var Properties *ParserProperties

// ParserProperties defines limits and grammar switches of the decoder, named after the redis.conf options
type ParserProperties struct {
	MaxBulkLen      int  `cfg:"proto-max-bulk-len" yaml:"proto-max-bulk-len"`
	MaxMultiBulkLen int  `cfg:"proto-max-multibulk-len" yaml:"proto-max-multibulk-len"`
	MaxNesting      int  `cfg:"proto-max-nesting" yaml:"proto-max-nesting"`
	MaxInputLen     int  `cfg:"max-input-len" yaml:"max-input-len"`
	NullBulk        bool `cfg:"proto-null-bulk" yaml:"proto-null-bulk"`
	LenientArrays   bool `cfg:"proto-lenient-arrays" yaml:"proto-lenient-arrays"`

	LogLevel string `cfg:"loglevel" yaml:"loglevel"`
	LogDir   string `cfg:"logdir" yaml:"logdir"`
}

func init() {
	Properties = Default()
}

// Default returns properties matching parser.DefaultOptions
func Default() *ParserProperties {
	opts := parser.DefaultOptions()
	return &ParserProperties{
		MaxBulkLen:      opts.MaxBulkLen,
		MaxMultiBulkLen: opts.MaxArrayLen,
		MaxNesting:      opts.MaxDepth,
		MaxInputLen:     opts.MaxInputLen,
		LogLevel:        "info",
	}
}

// ParserOptions converts properties into parser.Options
func (p *ParserProperties) ParserOptions() parser.Options {
	return parser.Options{
		MaxBulkLen:    p.MaxBulkLen,
		MaxArrayLen:   p.MaxMultiBulkLen,
		MaxDepth:      p.MaxNesting,
		MaxInputLen:   p.MaxInputLen,
		AllowNullBulk: p.NullBulk,
		LenientArrays: p.LenientArrays,
	}
}

func parse(src io.Reader) (*ParserProperties, error) {
	config := Default()

	// read config file
	rawMap := make(map[string]string)
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > 0 && line[0] == '#' {
			continue
		}
		pivot := strings.IndexAny(line, " ")
		if pivot > 0 && pivot < len(line)-1 { // separator found
			key := line[0:pivot]
			value := strings.Trim(line[pivot+1:], " ")
			rawMap[strings.ToLower(key)] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// parse format
	t := reflect.TypeOf(config)
	v := reflect.ValueOf(config)
	n := t.Elem().NumField()
	for i := 0; i < n; i++ {
		field := t.Elem().Field(i)
		fieldVal := v.Elem().Field(i)
		key, ok := field.Tag.Lookup("cfg")
		if !ok {
			key = field.Name
		}
		value, ok := rawMap[strings.ToLower(key)]
		if ok {
			// fill config
			switch field.Type.Kind() {
			case reflect.String:
				fieldVal.SetString(value)
			case reflect.Int:
				intValue, err := parseSize(value)
				if err != nil {
					return nil, fmt.Errorf("illegal value for %s: %v", key, err)
				}
				fieldVal.SetInt(intValue)
			case reflect.Bool:
				fieldVal.SetBool(toBool(value))
			}
		}
	}
	return config, nil
}

func parseYAML(src io.Reader) (*ParserProperties, error) {
	config := Default()
	if err := yaml.NewDecoder(src).Decode(config); err != nil && err != io.EOF {
		return nil, err
	}
	return config, nil
}

// SetupConfig reads config file and stores properties into Properties.
// Files ending with .yaml or .yml are decoded as YAML, others use the redis.conf format.
func SetupConfig(configFilename string) error {
	if configFilename == "" {
		if !defaultConfigFileExists() {
			Properties = Default()
			return nil
		}
		configFilename = DefaultConfPath
	}
	file, err := os.Open(configFilename)
	if err != nil {
		return err
	}
	defer file.Close()
	var props *ParserProperties
	switch strings.ToLower(filepath.Ext(configFilename)) {
	case ".yaml", ".yml":
		props, err = parseYAML(file)
	default:
		props, err = parse(file)
	}
	if err != nil {
		return fmt.Errorf("load config %s: %v", configFilename, err)
	}
	Properties = props
	return nil
}

func defaultConfigFileExists() bool {
	info, err := os.Stat(DefaultConfPath)
	return err == nil && !info.IsDir()
}

func toBool(s string) bool {
	ls := strings.ToLower(s)
	switch ls {
	case "true", "yes", "t", "y":
		return true
	default:
		return false
	}
}

var sizeUnits = []struct {
	suffix string
	factor int64
}{
	{"kb", 1024},
	{"mb", 1024 * 1024},
	{"gb", 1024 * 1024 * 1024},
	{"k", 1000},
	{"m", 1000 * 1000},
	{"g", 1000 * 1000 * 1000},
}

// parseSize accepts plain integers and the memory units of redis.conf, e.g. 512mb or 64k.
// Negative sizes and sizes that overflow int64 are rejected.
func parseSize(s string) (int64, error) {
	ls := strings.ToLower(s)
	factor := int64(1)
	for _, unit := range sizeUnits {
		if strings.HasSuffix(ls, unit.suffix) {
			ls = strings.TrimSuffix(ls, unit.suffix)
			factor = unit.factor
			break
		}
	}
	n, err := strconv.ParseInt(ls, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %s", s)
	}
	if n > math.MaxInt64/factor {
		return 0, fmt.Errorf("size %s out of range", s)
	}
	return n * factor, nil
}
