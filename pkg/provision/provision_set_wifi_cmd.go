package provision

const cmd_PROVISION_SET_WIFI = "provision_set_wifi"

func SetWiFi(ssid, passphrase string) Command {
	return Command{Name: cmd_PROVISION_SET_WIFI, Args: []string{ssid, passphrase}}
}
