package provision

const cmd_PROVISION_COMPLETE = "provision_complete"

// Complete marks the device as provisioned. It takes effect after a reboot.
func Complete() Command {
	return Command{Name: cmd_PROVISION_COMPLETE}
}
