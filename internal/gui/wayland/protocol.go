package wayland

// Opcodes below are the subset of wl_display/wl_registry/wl_seat/
// wl_data_device_manager/wl_data_source/wl_data_offer/wl_data_device
// requests and events this backend actually exercises, numbered per the
// upstream wayland.xml protocol definition.
const (
	// wl_display (object id 1)
	opDisplaySync         uint16 = 0
	opDisplayGetRegistry  uint16 = 1

	// wl_registry
	opRegistryBind  uint16 = 0
	evRegistryGlobal uint16 = 0

	// wl_seat
	opSeatGetKeyboard uint16 = 1
	evSeatCapabilities uint16 = 0

	// wl_keyboard
	evKeyboardEnter uint16 = 1
	evKeyboardLeave uint16 = 2

	// wl_data_device_manager
	opDataDeviceManagerCreateDataSource uint16 = 0
	opDataDeviceManagerGetDataDevice    uint16 = 1

	// wl_data_source
	opDataSourceOffer uint16 = 0
	evDataSourceSend    uint16 = 1
	evDataSourceCancelled uint16 = 2

	// wl_data_device
	opDataDeviceSetSelection uint16 = 1
	evDataDeviceDataOffer uint16 = 0
	evDataDeviceSelection uint16 = 5

	// wl_data_offer
	opDataOfferReceive uint16 = 1
	evDataOfferOffer     uint16 = 0
)

const (
	ifaceCompositor        = "wl_compositor"
	ifaceSeat              = "wl_seat"
	ifaceDataDeviceManager = "wl_data_device_manager"
)
