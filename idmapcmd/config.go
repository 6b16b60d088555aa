package idmapcmd

import (
	"fmt"
	"io"
	"os"

	"code.cloudfoundry.org/lager"
	"github.com/concourse/flag"
	"github.com/spf13/cobra"
	"github.com/toonarmy14/lxc-idmap-v2/idmap"
)

type IDMapperConfig struct {
	Logger flag.Lager `yaml:",inline"`

	// Mappings, together with any positional arguments, populate both
	// namespaces; Users and Groups populate only their own.
	Mappings   []string `yaml:"mappings,omitempty"`
	Users      []string `yaml:"users,omitempty"`
	Groups     []string `yaml:"groups,omitempty"`
	UserGroups []string `yaml:"user_groups,omitempty"`

	MaxID      int `yaml:"max_id,omitempty" validate:"gt=0"`
	FillerBase int `yaml:"filler_base,omitempty" validate:"gtfield=MaxID"`

	CheckHost bool `yaml:"check_host,omitempty"`
}

var CmdDefaults = IDMapperConfig{
	Logger: flag.Lager{
		LogLevel: "info",
	},

	MaxID:      65536,
	FillerBase: 100000,
}

func InitializeIDMapperFlags(c *cobra.Command, cmd *IDMapperConfig) {
	c.Flags().StringVar(&cmd.Logger.LogLevel, "log-level", cmd.Logger.LogLevel, "minimum level of logs to emit")

	c.Flags().StringArrayVarP(&cmd.Users, "user", "u", nil, "container uid, or container uid and host uid pair separated by an equals sign (1000 or 1000=107); no group mapping is created")
	c.Flags().StringArrayVarP(&cmd.Groups, "group", "g", nil, "container gid, or container gid and host gid pair separated by an equals sign (1000 or 1000=107); no user mapping is created")
	c.Flags().StringArrayVar(&cmd.UserGroups, "ug", nil, "mapping spec applied to both namespaces, like a positional argument (lxc_uid[:lxc_gid][=host_uid[:host_gid]])")

	c.Flags().IntVar(&cmd.MaxID, "max-id", cmd.MaxID, "size of the container ID space; every container ID below this is mapped")
	c.Flags().IntVar(&cmd.FillerBase, "filler-base", cmd.FillerBase, "host ID offset for filler ranges; must exceed max-id")

	c.Flags().BoolVar(&cmd.CheckHost, "check-host", false, "warn when the host's own ID maps cannot cover the filler ranges")
}

func (cmd *IDMapperConfig) Execute(args []string) error {
	return cmd.Run(args, os.Stdout)
}

func (cmd *IDMapperConfig) Run(args []string, out io.Writer) error {
	logger, _ := cmd.constructLogger()

	collector := idmap.NewCollector()

	specs := []string{}
	specs = append(specs, cmd.Mappings...)
	specs = append(specs, cmd.UserGroups...)
	specs = append(specs, args...)

	for _, raw := range specs {
		spec, err := idmap.ParseSpec(raw)
		if err != nil {
			return err
		}

		err = collector.AddSpec(spec)
		if err != nil {
			return err
		}
	}

	for _, raw := range cmd.Users {
		scoped, err := idmap.ParseScopedSpec(raw)
		if err != nil {
			return err
		}

		err = collector.AddUser(scoped)
		if err != nil {
			return err
		}
	}

	for _, raw := range cmd.Groups {
		scoped, err := idmap.ParseScopedSpec(raw)
		if err != nil {
			return err
		}

		err = collector.AddGroup(scoped)
		if err != nil {
			return err
		}
	}

	partitioner := idmap.Partitioner{
		MaxID:      cmd.MaxID,
		FillerBase: cmd.FillerBase,
	}

	users, err := partitioner.Partition(idmap.User, collector.Users())
	if err != nil {
		logger.Error("failed-to-partition-user-namespace", err)
		return err
	}

	groups, err := partitioner.Partition(idmap.Group, collector.Groups())
	if err != nil {
		logger.Error("failed-to-partition-group-namespace", err)
		return err
	}

	logger.Debug("partitioned", lager.Data{
		"user-records":  len(users),
		"group-records": len(groups),
	})

	if cmd.CheckHost {
		cmd.checkHost(logger.Session("check-host"))
	}

	_, err = fmt.Fprint(out, idmap.RenderAll(users, groups))
	return err
}

// checkHost never fails the run; the host's ID maps are advisory for a
// tool that only emits configuration text.
func (cmd *IDMapperConfig) checkHost(logger lager.Logger) {
	if !idmap.Supported() {
		logger.Info("host-id-maps-not-present")
		return
	}

	for _, hostMap := range []idmap.HostMap{idmap.DefaultUIDHostMap, idmap.DefaultGIDHostMap} {
		maxValid, err := hostMap.MaxValid()
		if err != nil {
			logger.Error("failed-to-read-host-id-map", err, lager.Data{
				"path": string(hostMap),
			})
			continue
		}

		if highest := cmd.FillerBase + cmd.MaxID - 1; highest > maxValid {
			logger.Info("filler-range-exceeds-host-id-map", lager.Data{
				"path":      string(hostMap),
				"highest":   highest,
				"max-valid": maxValid,
			})
		}
	}
}

// Logs go to stderr; stdout carries only the rendered configuration
// text.
func (cmd *IDMapperConfig) constructLogger() (lager.Logger, *lager.ReconfigurableSink) {
	var minLevel lager.LogLevel
	switch cmd.Logger.LogLevel {
	case "debug":
		minLevel = lager.DEBUG
	case "error":
		minLevel = lager.ERROR
	case "fatal":
		minLevel = lager.FATAL
	default:
		minLevel = lager.INFO
	}

	logger := lager.NewLogger("lxc-idmap")
	sink := lager.NewReconfigurableSink(lager.NewWriterSink(os.Stderr, lager.DEBUG), minLevel)
	logger.RegisterSink(sink)

	return logger, sink
}
