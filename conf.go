package main

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var conf *Conf

type Conf struct {
	App        AppConf        `mapstructure:"app"`
	Output     OutputConf     `mapstructure:"output"`
	Task       TaskConf       `mapstructure:"task"`
	BreakPoint BreakPointConf `mapstructure:"breakPoint"`
	Tm         TileMapConf    `mapstructure:"tm"`
	Globe      GlobeConf      `mapstructure:"globe"`
	Flight     FlightConf     `mapstructure:"flight"`
}

type AppConf struct {
	Version string `mapstructure:"version" default:"v 0.1.0"`
	Title   string `mapstructure:"title" default:"MapCloud Tiler"`
}

type OutputConf struct {
	Directory      string `mapstructure:"directory" default:"output" validate:"required"`
	LogDir         string `mapstructure:"logDir"`
	LogLevel       string `mapstructure:"logLevel" default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogMaxSize     int    `mapstructure:"logMaxSize" default:"50" validate:"gte=1"` // MB
	LogMaxBackups  int    `mapstructure:"logMaxBackups" default:"7" validate:"gte=0"`
	OutputTerminal bool   `mapstructure:"outputTerminal" default:"true"`
}

type TaskConf struct {
	Workers   int `mapstructure:"workers" default:"4" validate:"gte=1"`
	// 请求间隔, 毫秒
	Timedelay int `mapstructure:"timedelay" validate:"gte=0"`
	// 单个请求超时, 毫秒
	Timeout   int `mapstructure:"timeout" default:"10000" validate:"gte=1"`
	// 瓦片内存缓存上限, MB
	CacheSize int `mapstructure:"cacheSize" default:"64" validate:"gte=1"`
	URLMemo   int `mapstructure:"urlMemo" default:"4096" validate:"gte=1"`
}

type BreakPointConf struct {
	SaveFilePath string `mapstructure:"saveFilePath" default:"breakpoint"`
}

type TileMapConf struct {
	Name   string `mapstructure:"name" validate:"required"`
	Format string `mapstructure:"format" default:"png" validate:"oneof=png jpg webp pbf"`
	URL    string `mapstructure:"url" validate:"required"`
	Proxy  string `mapstructure:"proxy" validate:"omitempty,url"`
}

type GlobeConf struct {
	FullOverlapLevel int     `mapstructure:"fullOverlapLevel" default:"4" validate:"gte=0"`
	DeltaLevel       int     `mapstructure:"deltaLevel" default:"2" validate:"gte=0"`
	Threshold        float64 `mapstructure:"threshold" default:"1" validate:"gt=0"`
}

type FlightConf struct {
	Path     string    `mapstructure:"path"`
	Center   []float64 `mapstructure:"center" default:"[116.391,39.907]" validate:"len=2"`
	MinLevel int       `mapstructure:"minLevel" default:"2" validate:"gte=0,lte=22"`
	MaxLevel int       `mapstructure:"maxLevel" default:"12" validate:"gtefield=MinLevel,lte=22"`
	Frames   int       `mapstructure:"frames" default:"600" validate:"gte=1"`
	FPS      int       `mapstructure:"fps" default:"30" validate:"gte=1,lte=240"`
	Width    int       `mapstructure:"width" default:"1280" validate:"gte=1"`
	Height   int       `mapstructure:"height" default:"720" validate:"gte=1"`
	Pitch    float64   `mapstructure:"pitch" validate:"gte=0,lt=90"`
	LogEvery int       `mapstructure:"logEvery" default:"60" validate:"gte=1"`
}

// InitConf 初始化配置
func InitConf(cfgFile string, flags *pflag.FlagSet) error {
	c, err := loadConf(cfgFile, flags)
	if err != nil {
		return err
	}
	conf = c
	return nil
}

func loadConf(cfgFile string, flags *pflag.FlagSet) (*Conf, error) {
	if cfgFile == "" {
		cfgFile = "conf.toml"
	}
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file(%s) not exist", cfgFile)
	}
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(cfgFile)
	v.AutomaticEnv() // read in environment variables that match
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file(%s) error: %w", v.ConfigFileUsed(), err)
	}
	if flags != nil {
		if f := flags.Lookup("log-level"); f != nil && f.Changed {
			if err := v.BindPFlag("output.logLevel", f); err != nil {
				return nil, err
			}
		}
	}

	c := new(Conf)
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("set config defaults: %w", err)
	}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("配置文件解析失败: %w", err)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return c, nil
}
