package provision

const cmd_PROVISION_STATUS = "provision_status"

// Status asks the firmware to print its stored configuration. The password
// is shown as [HIDDEN].
func Status() Command {
	return Command{Name: cmd_PROVISION_STATUS}
}
