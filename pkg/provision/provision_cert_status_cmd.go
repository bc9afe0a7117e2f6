package provision

const cmd_PROVISION_CERT_STATUS = "provision_cert_status"

func CertStatus() Command {
	return Command{Name: cmd_PROVISION_CERT_STATUS}
}
