package idmapcmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/clarafu/envstruct"
	"github.com/concourse/flag"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var idMapperCmd IDMapperConfig
var configFile flag.File

var IDMapperCommand = &cobra.Command{
	Use:   "lxc-idmap [lxc_uid[:lxc_gid][=host_uid[:host_gid]] ...]",
	Short: "Generate ID mappings for unprivileged LXCs",
	Long: `Expands a sparse set of explicit container-to-host ID mappings into a
complete partition of the container ID space, and prints the lxc.idmap
configuration block plus the matching /etc/subuid and /etc/subgid entries.`,
	RunE: InitializeIDMapper,
}

func init() {
	IDMapperCommand.Flags().Var(&configFile, "config", "config file (default is $HOME/.lxc-idmap.yml)")

	idMapperCmd = CmdDefaults

	InitializeIDMapperFlags(IDMapperCommand, &idMapperCmd)
}

func InitializeIDMapper(cmd *cobra.Command, args []string) error {
	// Fetch out env values
	env := envstruct.Envstruct{
		TagName:       "yaml",
		OverrideName:  "env",
		IgnoreTagName: "ignore_env",

		Parser: envstruct.Parser{
			Delimiter:   ",",
			Unmarshaler: yaml.Unmarshal,
		},
	}

	err := env.FetchEnv(&idMapperCmd)
	if err != nil {
		return fmt.Errorf("fetch env: %s", err)
	}

	// Fetch out the values set from the config file and overwrite the flag
	// values
	if configFile != "" {
		file, err := os.Open(string(configFile))
		if err != nil {
			return fmt.Errorf("open file: %s", err)
		}

		decoder := yaml.NewDecoder(file)
		err = decoder.Decode(&idMapperCmd)
		if err != nil {
			return fmt.Errorf("decode config: %s", err)
		}
	}

	// Validate the values passed in by the user
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")

	validator := NewValidator(trans)

	err = validator.Struct(idMapperCmd)
	if err != nil {
		validationErrors := err.(val.ValidationErrors)

		var errs *multierror.Error
		for _, validationErr := range validationErrors {
			errs = multierror.Append(
				errs,
				errors.New(validationErr.Translate(trans)),
			)
		}

		return errs.ErrorOrNil()
	}

	err = idMapperCmd.Execute(args)
	if err != nil {
		return fmt.Errorf("failed to generate ID mappings: %s", err)
	}

	return nil
}
