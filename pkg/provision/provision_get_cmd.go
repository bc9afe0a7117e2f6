package provision

const cmd_PROVISION_GET = "provision_get"

// String keys readable with provision_get. Secrets are printed as [HIDDEN].
const (
	KeyWiFiSSID   = "wifi_ssid"
	KeyDeviceID   = "device_id"
	KeyTenantID   = "tenant_id"
	KeyBuildingID = "building_id"
	KeyRoomID     = "room_id"
)

var Keys = []string{KeyWiFiSSID, KeyDeviceID, KeyTenantID, KeyBuildingID, KeyRoomID}

func Get(key string) Command {
	return Command{Name: cmd_PROVISION_GET, Args: []string{key}}
}
