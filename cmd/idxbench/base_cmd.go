package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type idxbenchApp struct {
	baseCmd    *cobra.Command
	baseConfig *baseConfiguration
}

const (
	// 環境變數前綴，例如 --max-level 對應 IDX_MAX_LEVEL
	envPrefix = "IDX"
	// 未指定 --config 時讀取目前目錄下的設定檔（存在才讀）
	defaultConfigFile = "idxbench.yaml"
)

func New() *idxbenchApp {
	baseCmd, baseConfig := newBaseCmd()
	return &idxbenchApp{baseCmd, baseConfig}
}

// Execute 加入所有子命令後執行
func (a *idxbenchApp) Execute(ctx context.Context) error {
	return a.addAndExecuteCommand(ctx)
}

func (a *idxbenchApp) addAndExecuteCommand(ctx context.Context) error {
	a.baseCmd.AddCommand(newGenCmd(a.baseConfig))
	a.baseCmd.AddCommand(newRunCmd(a.baseConfig))
	a.baseCmd.AddCommand(newReplayCmd(a.baseConfig))
	a.baseCmd.AddCommand(newRenderCmd(a.baseConfig))
	a.baseCmd.AddCommand(newDemoCmd(a.baseConfig))
	a.baseCmd.AddCommand(newTuneCmd(a.baseConfig))
	return a.baseCmd.ExecuteContext(ctx)
}

func newBaseCmd() (*cobra.Command, *baseConfiguration) {
	config := &baseConfiguration{}
	var baseCmd = &cobra.Command{
		Use:           "idxbench",
		Short:         "DSW tree and skip list benchmarking tool",
		Long:          `idxbench generates datasets and operation streams, runs insert/search/delete/range experiments on an unbalanced BST, a DSW-balanced tree and a skip list, and renders their structure as Graphviz DOT.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(cmd, config); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			return nil
		},
	}
	config.addConfigurationFlags(baseCmd)
	return baseCmd, config
}

func initializeConfig(cmd *cobra.Command, config *baseConfiguration) error {
	var errs []error
	if err := config.initializeConfig(cmd); err != nil {
		errs = append(errs, fmt.Errorf("reading configuration: %w", err))
	}
	if err := config.initLogger(cmd); err != nil {
		errs = append(errs, fmt.Errorf("initializing logger: %w", err))
	}
	return errors.Join(errs...)
}

// initializeConfig 讀取設定檔與環境變數，套用到沒有在命令列指定的 flag
func (config *baseConfiguration) initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	cfgFile := config.CfgFile
	if cfgFile == "" {
		cfgFile = defaultConfigFile
	}
	if _, err := os.Stat(cfgFile); err == nil {
		v.SetConfigFile(cfgFile)
	} else if config.CfgFile != "" {
		return fmt.Errorf("config file %s: %w", cfgFile, err)
	}

	if err := v.ReadInConfig(); err != nil {
		// 沒有設定檔也沒關係
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := bindFlags(cmd, v); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// bindFlags 把每個 cobra flag 綁到 viper（設定檔與環境變數）
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindFlagErr []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// 環境變數不能有 '-'，例如 --max-level 綁到 IDX_MAX_LEVEL
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("could not bind env to flag %q: %w", f.Name, err))
				return
			}
		}

		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := v.Get(f.Name)
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if err := sv.Replace(sliceValues(val)); err != nil {
				bindFlagErr = append(bindFlagErr, fmt.Errorf("could not set value to flag %q: %w", f.Name, err))
				return
			}
			f.Changed = true
			return
		}
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
			bindFlagErr = append(bindFlagErr, fmt.Errorf("could not set value to flag %q: %w", f.Name, err))
		}
	})
	return errors.Join(bindFlagErr...)
}

// sliceValues 支援設定檔中的 YAML 陣列與環境變數的逗號分隔字串
func sliceValues(val interface{}) []string {
	if s, ok := val.(string); ok {
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return cast.ToStringSlice(val)
}
