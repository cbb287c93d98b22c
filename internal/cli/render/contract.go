package render

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-create2/internal/domain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// ContractRenderer renders prediction, deployment and status results
type ContractRenderer struct {
	out io.Writer
}

// NewContractRenderer creates a new contract renderer
func NewContractRenderer(out io.Writer) *ContractRenderer {
	return &ContractRenderer{out: out}
}

// RenderPrediction renders a predicted address with the inputs it was derived from
func (r *ContractRenderer) RenderPrediction(result *usecase.PredictAddressResult, network *config.Network) error {
	fmt.Fprintln(r.out, headerStyle.Sprint("🔮 Address Prediction"))

	rows := [][2]string{
		{"Contract", fmt.Sprintf("%s (%s)", result.Artifact.Name, result.Artifact.Path)},
		{"Factory", fmt.Sprintf("%s %s", factoryTitle(result.FactoryName), result.FactoryAddress.Hex())},
	}
	if network != nil {
		rows = append(rows, [2]string{"Network", networkLabel(network.Name, network.ChainID)})
	}
	if result.Sender != (common.Address{}) {
		rows = append(rows, [2]string{"Sender", result.Sender.Hex()})
	}
	rows = append(rows, [2]string{"Salt", result.Salt.Hex()})
	if result.EffectiveSalt != result.Salt {
		rows = append(rows, [2]string{"Guarded salt", result.EffectiveSalt.Hex()})
	}
	rows = append(rows,
		[2]string{"Init code hash", result.InitCodeHash.Hex()},
		[2]string{"Init code size", fmt.Sprintf("%d bytes", result.InitCodeSize)},
		[2]string{"Address", addressStyle.Sprint(result.Address.Hex())},
	)
	if result.Deployed != nil {
		rows = append(rows, [2]string{"Status", deployedLabel(*result.Deployed)})
	}
	if result.OnchainAddress != nil {
		check := successStyle.Sprint("matches")
		if *result.OnchainAddress != result.Address {
			check = errorStyle.Sprintf("MISMATCH %s", result.OnchainAddress.Hex())
		}
		rows = append(rows, [2]string{"Onchain", check})
	}
	renderFields(r.out, rows)
	return nil
}

// RenderDeployment renders the outcome of a deploy
func (r *ContractRenderer) RenderDeployment(result *usecase.DeployContractResult) error {
	if result.AlreadyDeployed {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is already deployed at %s", result.Artifact.Name, result.Address.Hex())))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s", result.Artifact.Name)))
	}

	rows := [][2]string{
		{"Address", addressStyle.Sprint(result.Address.Hex())},
		{"Factory", factoryTitle(result.FactoryName)},
		{"Sender", result.Sender.Hex()},
	}
	if result.Network != nil {
		rows = append(rows, [2]string{"Network", networkLabel(result.Network.Name, result.Network.ChainID)})
	}
	rows = append(rows, receiptRows(result.Receipt)...)
	renderFields(r.out, rows)
	renderEvents(r.out, result.Events)
	return nil
}

// RenderStatus renders code presence at a contract address
func (r *ContractRenderer) RenderStatus(result *usecase.CheckDeploymentResult) error {
	fmt.Fprintln(r.out, headerStyle.Sprintf("📍 %s", result.ArtifactName))

	rows := [][2]string{
		{"Address", addressStyle.Sprint(result.Address.Hex())},
	}
	if result.Network != nil {
		rows = append(rows, [2]string{"Network", networkLabel(result.Network.Name, result.Network.ChainID)})
	}
	rows = append(rows, [2]string{"Status", deployedLabel(result.Deployed)})
	if result.Deployed {
		rows = append(rows,
			[2]string{"Code size", fmt.Sprintf("%d bytes", result.CodeSize)},
			[2]string{"Code hash", result.CodeHash.Hex()},
		)
	}
	if result.FactoryName != "" {
		factory := fmt.Sprintf("%s %s", factoryTitle(result.FactoryName), result.FactoryAddress.Hex())
		if !result.FactoryDeployed {
			factory += " " + errorStyle.Sprint("(not deployed on this chain)")
		}
		rows = append(rows, [2]string{"Factory", factory})
	}
	renderFields(r.out, rows)
	return nil
}

func deployedLabel(deployed bool) string {
	if deployed {
		return successStyle.Sprint("deployed")
	}
	return warnStyle.Sprint("not deployed")
}

func receiptRows(receipt *domain.Receipt) [][2]string {
	if receipt == nil {
		return nil
	}
	return [][2]string{
		{"Transaction", receipt.TxHash.Hex()},
		{"Block", fmt.Sprintf("%d", receipt.BlockNumber)},
		{"Gas used", fmt.Sprintf("%d", receipt.GasUsed)},
	}
}

// PredictionJSON is the JSON form of a prediction
type PredictionJSON struct {
	Contract       string  `json:"contract"`
	Artifact       string  `json:"artifact"`
	Address        string  `json:"address"`
	Factory        string  `json:"factory"`
	FactoryAddress string  `json:"factoryAddress"`
	ChainID        uint64  `json:"chainId,omitempty"`
	Sender         string  `json:"sender,omitempty"`
	Salt           string  `json:"salt"`
	EffectiveSalt  string  `json:"effectiveSalt"`
	InitCodeHash   string  `json:"initCodeHash"`
	Deployed       *bool   `json:"deployed,omitempty"`
	OnchainAddress *string `json:"onchainAddress,omitempty"`
}

// NewPredictionJSON converts a prediction result
func NewPredictionJSON(result *usecase.PredictAddressResult) PredictionJSON {
	out := PredictionJSON{
		Contract:       result.Artifact.Name,
		Artifact:       result.Artifact.Path,
		Address:        result.Address.Hex(),
		Factory:        result.FactoryName,
		FactoryAddress: result.FactoryAddress.Hex(),
		ChainID:        result.ChainID,
		Salt:           result.Salt.Hex(),
		EffectiveSalt:  result.EffectiveSalt.Hex(),
		InitCodeHash:   result.InitCodeHash.Hex(),
		Deployed:       result.Deployed,
	}
	if result.Sender != (common.Address{}) {
		out.Sender = result.Sender.Hex()
	}
	if result.OnchainAddress != nil {
		onchain := result.OnchainAddress.Hex()
		out.OnchainAddress = &onchain
	}
	return out
}

// DeploymentJSON is the JSON form of a deploy outcome
type DeploymentJSON struct {
	Contract        string                `json:"contract"`
	Address         string                `json:"address"`
	Factory         string                `json:"factory"`
	Sender          string                `json:"sender"`
	ChainID         uint64                `json:"chainId,omitempty"`
	AlreadyDeployed bool                  `json:"alreadyDeployed"`
	Receipt         *domain.Receipt       `json:"receipt,omitempty"`
	Events          []domain.DecodedEvent `json:"events,omitempty"`
}

// NewDeploymentJSON converts a deploy result
func NewDeploymentJSON(result *usecase.DeployContractResult) DeploymentJSON {
	out := DeploymentJSON{
		Contract:        result.Artifact.Name,
		Address:         result.Address.Hex(),
		Factory:         result.FactoryName,
		Sender:          result.Sender.Hex(),
		AlreadyDeployed: result.AlreadyDeployed,
		Receipt:         result.Receipt,
		Events:          result.Events,
	}
	if result.Network != nil {
		out.ChainID = result.Network.ChainID
	}
	return out
}

// StatusJSON is the JSON form of a status check
type StatusJSON struct {
	Contract        string `json:"contract"`
	Address         string `json:"address"`
	ChainID         uint64 `json:"chainId,omitempty"`
	Deployed        bool   `json:"deployed"`
	CodeSize        int    `json:"codeSize"`
	CodeHash        string `json:"codeHash,omitempty"`
	Factory         string `json:"factory,omitempty"`
	FactoryDeployed *bool  `json:"factoryDeployed,omitempty"`
}

// NewStatusJSON converts a status result
func NewStatusJSON(result *usecase.CheckDeploymentResult) StatusJSON {
	out := StatusJSON{
		Contract: result.ArtifactName,
		Address:  result.Address.Hex(),
		Deployed: result.Deployed,
		CodeSize: result.CodeSize,
		Factory:  result.FactoryName,
	}
	if result.Network != nil {
		out.ChainID = result.Network.ChainID
	}
	if result.Deployed {
		out.CodeHash = result.CodeHash.Hex()
	}
	if result.FactoryName != "" {
		deployed := result.FactoryDeployed
		out.FactoryDeployed = &deployed
	}
	return out
}
