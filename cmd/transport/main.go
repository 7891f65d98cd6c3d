package main

import (
	"fmt"
	"os"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/cmd/transport/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
