package boards

// Built-in descriptors. Both TI boards put LED1 on GPIO31 and LED2 on GPIO34.
var builtin = []Board{
	{
		Name: "launchxl-f28379d", Family: FamilyF2837xD,
		GPIOMin: 0, GPIOMax: 168,
		LED1: 31, LED2: 34,
		Clock: Clock{Source: "xtal", OscHz: 10_000_000, IMult: 40, SysDiv: 2},
	},
	{
		Name: "controlcard-f28379d", Family: FamilyF2837xD,
		GPIOMin: 0, GPIOMax: 168,
		LED1: 31, LED2: 34,
		Clock: Clock{Source: "xtal", OscHz: 20_000_000, IMult: 20, SysDiv: 2},
	},
	{
		// Onboard LED plus an external one on GP15.
		Name: "pico", Family: FamilyRP2,
		GPIOMin: 0, GPIOMax: 28,
		LED1: 25, LED2: 15,
		Clock: Clock{CoreHz: 125_000_000},
	},
	{
		Name: "pico2", Family: FamilyRP2,
		GPIOMin: 0, GPIOMax: 29,
		LED1: 25, LED2: 15,
		Clock: Clock{CoreHz: 150_000_000},
	},
}

func init() {
	for _, b := range builtin {
		if err := Register(b); err != nil {
			panic(err.Error())
		}
	}
}
