package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/questx-lab/mintstudio/config"
	"github.com/questx-lab/mintstudio/contract/nftstudio"
	"github.com/questx-lab/mintstudio/internal/domain/blockchain"
)

// Contract packs studio calls for the configured NFT contract.
type Contract struct {
	address common.Address
	abi     *abi.ABI

	// methods maps a studio function to the ABI method implementing it.
	methods map[string]string
}

func NewContract(cfg config.ContractConfigs) (*Contract, error) {
	if !common.IsHexAddress(cfg.Address) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.Address)
	}

	parsed, err := nftstudio.NftStudioMetaData.GetAbi()
	if err != nil {
		return nil, err
	}

	// Copy so a custom method never leaks into the shared ABI.
	contractABI := *parsed
	contractABI.Methods = make(map[string]abi.Method, len(parsed.Methods)+1)
	for name, method := range parsed.Methods {
		contractABI.Methods[name] = method
	}

	setBaseURI := cfg.SetBaseURIMethod
	if setBaseURI == "" {
		setBaseURI = blockchain.FunctionSetBaseURI
	}

	if _, ok := contractABI.Methods[setBaseURI]; !ok {
		stringType, err := abi.NewType("string", "", nil)
		if err != nil {
			return nil, err
		}

		contractABI.Methods[setBaseURI] = abi.NewMethod(
			setBaseURI, setBaseURI, abi.Function, "nonpayable", false, false,
			abi.Arguments{{Name: "baseURI", Type: stringType}}, nil,
		)
	}

	return &Contract{
		address: common.HexToAddress(cfg.Address),
		abi:     &contractABI,
		methods: map[string]string{
			blockchain.FunctionMint:       blockchain.FunctionMint,
			blockchain.FunctionBatchMint:  blockchain.FunctionBatchMint,
			blockchain.FunctionSetBaseURI: setBaseURI,
		},
	}, nil
}

func (c *Contract) Address() common.Address {
	return c.address
}

func (c *Contract) ABI() *abi.ABI {
	return c.abi
}

func (c *Contract) Method(function string) (string, error) {
	method, ok := c.methods[function]
	if !ok {
		return "", fmt.Errorf("unsupported function %s", function)
	}

	return method, nil
}

func (c *Contract) Pack(call blockchain.Call) ([]byte, error) {
	method, err := c.Method(call.Function)
	if err != nil {
		return nil, err
	}

	return c.abi.Pack(method, call.Args...)
}
