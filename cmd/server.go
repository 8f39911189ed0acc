package cmd

import (
	"net/http"

	"github.com/imagespy/archcheck/checker"
	"github.com/imagespy/archcheck/registry"
	"github.com/imagespy/archcheck/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Serves the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		mustInitLogging()
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		reg.MustRegister(checker.Collectors()...)
		reg.MustRegister(registry.Collectors()...)

		addr := viper.GetString("http.address")
		handler := web.Init(newChecker(), reg)
		log.Infof("listening on %s", addr)
		log.Fatal(http.ListenAndServe(addr, handler))
	},
}

func init() {
	serverCmd.Flags().String("http.address", ":3001", "ip:port combination to bind to")
	viper.BindPFlag("http.address", serverCmd.Flags().Lookup("http.address"))
	rootCmd.AddCommand(serverCmd)
}
