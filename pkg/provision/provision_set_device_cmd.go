package provision

const cmd_PROVISION_SET_DEVICE = "provision_set_device"

func SetDevice(deviceID, tenantID, buildingID, roomID string) Command {
	return Command{
		Name: cmd_PROVISION_SET_DEVICE,
		Args: []string{deviceID, tenantID, buildingID, roomID},
	}
}
