package provision

const cmd_PROVISION_RESET = "provision_reset"

// Reset erases every provisioning key from NVS.
func Reset() Command {
	return Command{Name: cmd_PROVISION_RESET}
}
