package main

// setupCommands wires every subcommand onto rootCmd.
func setupCommands() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(tableCmd)
}
