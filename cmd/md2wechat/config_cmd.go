package main

import (
	"fmt"

	"github.com/alnah/go-md2wechat/internal/config"
	"github.com/alnah/go-md2wechat/internal/yamlutil"
)

// secretMask replaces configured secrets in printed configuration.
const secretMask = "********"

// runConfigCmd prints the effective configuration with secrets masked.
func runConfigCmd(args []string, env *Environment) error {
	cfgName, _, err := parseConfigFlags(cmdConfig, args, printConfigUsage, env.Stderr, false)
	if err != nil {
		return usageError(err)
	}

	cfg, err := resolveConfig(cfgName, env.Stderr)
	if err != nil {
		return err
	}
	env.Config = cfg

	data, err := yamlutil.Marshal(maskSecrets(cfg))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(data)
	return err
}

// maskSecrets returns a copy of cfg with credentials hidden. Unset
// secrets stay empty so a missing value is visible.
func maskSecrets(cfg *config.Config) *config.Config {
	c := *cfg
	for _, s := range []*string{&c.WeChat.AppSecret, &c.ImageGen.APIKey, &c.LLM.APIKey} {
		if *s != "" {
			*s = secretMask
		}
	}
	return &c
}
