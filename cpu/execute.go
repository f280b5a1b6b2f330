package cpu

import (
	"fmt"

	"github.com/horizon3ds/core/bus"
)

// Execute dispatches a decoded instruction to its handler. The caller
// (Step) has already evaluated the condition field.
func (c *CPU) Execute(b bus.Bus, inst Instruction) error {
	switch inst.Kind {
	case KindDataProcessing:
		return c.ExecuteDataProcessing(inst)
	case KindMultiply:
		return c.ExecuteMultiply(inst)
	case KindMultiplyLong:
		return c.ExecuteMultiplyLong(inst)
	case KindBranch:
		return c.ExecuteBranch(inst)
	case KindBranchExchange:
		return c.ExecuteBranchExchange(inst)
	case KindSingleTransfer:
		return c.ExecuteSingleTransfer(b, inst)
	case KindHalfwordTransfer:
		return c.ExecuteHalfwordTransfer(b, inst)
	case KindBlockTransfer:
		return c.ExecuteBlockTransfer(b, inst)
	case KindSwap:
		return c.ExecuteSwap(b, inst)
	case KindPSRTransfer:
		return c.ExecutePSRTransfer(inst)
	case KindCoprocessorReg:
		return c.ExecuteCoprocessorReg(inst)
	case KindSoftwareInterrupt:
		return c.ExecuteSoftwareInterrupt(inst)
	case KindCPS:
		return c.ExecuteCPS(inst)
	case KindSRS:
		return c.ExecuteSRS(b, inst)
	case KindRFE:
		return c.ExecuteRFE(b, inst)
	default:
		return fmt.Errorf("%w: opcode 0x%08X at 0x%08X", ErrUndefined, inst.Raw, inst.Address)
	}
}
