package provider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/vmprov/internal/fault"
	"github.com/imamik/vmprov/internal/platform/shell"
	"github.com/imamik/vmprov/internal/util/naming"
	"github.com/imamik/vmprov/internal/vmconf"
)

// Azure declaration keys.
const (
	AzureName          = "name"
	AzureResourceGroup = "resource-group"
	AzureImage         = "image"
	AzureLocation      = "location"
	AzureAdminUsername = "admin-username"
	AzureAdminPassword = "admin-password"
	AzureDiskSize      = "os-disk-size-gb"
	AzureDiskCaching   = "os-disk-caching"
)

// ValidDiskCaching contains the accepted os-disk-caching values.
var ValidDiskCaching = map[string]bool{
	"None":      true,
	"ReadOnly":  true,
	"ReadWrite": true,
}

// AzureSpec describes Azure declarations.
var AzureSpec = Spec{
	Kind:            KindAzure,
	DisplayName:     "Azure",
	TagPrefix:       "azure",
	TagDigits:       2,
	MaxDeclarations: 10,
	Required:        []string{AzureName, AzureResourceGroup, AzureImage, AzureLocation, AzureAdminUsername},
	Optional:        []string{AzureAdminPassword, AzureDiskSize, AzureDiskCaching},
}

// Azure builds az CLI commands.
type Azure struct {
	cli string
}

// NewAzure creates the Azure provider using the given az binary.
func NewAzure(cli string) *Azure {
	if cli == "" {
		cli = "az"
	}
	return &Azure{cli: cli}
}

// Spec implements Provider.
func (a *Azure) Spec() Spec {
	return AzureSpec
}

// CheckFields implements Provider.
func (a *Azure) CheckFields(d *vmconf.Declaration) error {
	if password, ok := d.Get(AzureAdminPassword); ok && !ValidPassword(password) {
		return invalidField(d, AzureAdminPassword, "invalid admin password format")
	}

	if size, ok := d.Get(AzureDiskSize); ok {
		if _, err := strconv.ParseFloat(size, 64); err != nil {
			return invalidField(d, AzureDiskSize, "invalid os disk size format")
		}
	}

	if caching, ok := d.Get(AzureDiskCaching); ok && !ValidDiskCaching[caching] {
		return invalidField(d, AzureDiskCaching,
			fmt.Sprintf("invalid option for disk cache parameter %q: must be one of None, ReadOnly, ReadWrite", caching))
	}

	return nil
}

// Prerequisites implements Provider. Every VM lives in a resource group,
// created in the declaration's location when missing.
func (a *Azure) Prerequisites(d *vmconf.Declaration) []Prerequisite {
	group := d.Value(AzureResourceGroup)
	return []Prerequisite{{
		Resource: "resource group " + group,
		Check:    shell.New(a.cli, "group", "exists", "--name", group),
		Exists:   parseAzureBool,
		Create:   shell.New(a.cli, "group", "create", "--name", group, "--location", d.Value(AzureLocation)),
	}}
}

// PortCommands implements Provider. A port needs a security group inside
// the declaration's resource group, so resource-group must be declared
// before port.
func (a *Azure) PortCommands(d *vmconf.Declaration, port string, rule int) ([]shell.Command, error) {
	group, ok := d.Get(AzureResourceGroup)
	if !ok {
		return nil, &fault.Error{
			Kind:  fault.KindPortPrerequisiteMissing,
			Msg:   "resource group required to open port, declare resource-group before port",
			Tag:   d.Tag,
			Field: "port",
		}
	}

	nsg := naming.PortRule(rule)
	return []shell.Command{
		shell.New(a.cli, "network", "nsg", "create",
			"--resource-group", group,
			"--name", nsg),
		shell.New(a.cli, "network", "nsg", "rule", "create",
			"--nsg-name", nsg,
			"--resource-group", group,
			"--name", naming.AzureInboundRule,
			"--priority", naming.AzureInboundPriority,
			"--destination-port", port),
	}, nil
}

// CreateCommand implements Provider: one --key value flag per field, in
// declaration order.
func (a *Azure) CreateCommand(d *vmconf.Declaration) shell.Command {
	args := []string{"vm", "create"}
	for _, f := range d.Fields {
		args = append(args, "--"+f.Key, f.Value)
	}
	return shell.New(a.cli, args...)
}

// azureVM is the subset of `az vm create` output we report.
type azureVM struct {
	Location         string `json:"location"`
	ResourceGroup    string `json:"resourceGroup"`
	PrivateIPAddress string `json:"privateIpAddress"`
	PublicIPAddress  string `json:"publicIpAddress"`
	PowerState       string `json:"powerState"`
}

// Summarize implements Provider.
func (a *Azure) Summarize(d *vmconf.Declaration, output []byte) (*Summary, error) {
	var vm azureVM
	if err := json.Unmarshal(output, &vm); err != nil {
		return nil, fmt.Errorf("failed to parse az vm create output: %w", err)
	}
	return &Summary{
		Name:          d.Value(AzureName),
		Location:      vm.Location,
		ResourceGroup: vm.ResourceGroup,
		PrivateIP:     vm.PrivateIPAddress,
		PublicIP:      vm.PublicIPAddress,
		Status:        vm.PowerState,
	}, nil
}

func parseAzureBool(output []byte) (bool, error) {
	switch v := strings.TrimSpace(string(output)); v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected output %q", v)
	}
}
