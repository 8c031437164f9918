package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doongjohn/wirechan/p2p"
)

var (
	sendAddr    string
	sendNetwork string
	sendMessage string
	sendWait    time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message through a hub",
	Long:  `Dial a hub, push one data message into the network and optionally stay connected to print what comes back.`,
	RunE:  runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendAddr, "addr", "a", "", "Hub address (required)")
	sendCmd.Flags().StringVarP(&sendNetwork, "network", "n", "", "Network id (40 hex chars or a name)")
	sendCmd.Flags().StringVarP(&sendMessage, "message", "m", "", "Message to send (required)")
	sendCmd.Flags().DurationVarP(&sendWait, "wait", "w", 0, "How long to keep listening for relayed messages")

	sendCmd.MarkFlagRequired("addr")
	sendCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	peerCh := make(chan p2p.RemotePeer, 1)

	transport := p2p.NewTCPTransport(p2p.TCPTransportOpts{
		Handshake: p2p.DefaultHandshakeFunc,
		Decoder:   &p2p.BinaryDecoder{},
		Network:   networkID(sendNetwork),
		OnPeer: func(p p2p.RemotePeer) error {
			peerCh <- p
			return nil
		},
	})

	if err := transport.Dial(sendAddr); err != nil {
		return fmt.Errorf("dial hub: %w", err)
	}

	var peer p2p.RemotePeer
	select {
	case peer = <-peerCh:
	case <-time.After(10 * time.Second):
		return fmt.Errorf("timed out connecting to %s", sendAddr)
	}

	channel := p2p.NewProtocolChannel(peer)
	payload := append([]byte{p2p.MsgData}, []byte(sendMessage)...)
	if err := channel.Send(payload); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	PrintSuccess(fmt.Sprintf("Sent %d bytes to %s", len(sendMessage), sendAddr))

	if sendWait <= 0 {
		return nil
	}

	PrintInfo(fmt.Sprintf("Listening for %s...", sendWait))
	deadline := time.After(sendWait)
	for {
		select {
		case rpc := <-transport.Consume():
			if len(rpc.Payload) > 1 && rpc.Payload[0] == p2p.MsgData {
				PrintKeyValue("Received", string(rpc.Payload[1:]))
			}
		case <-deadline:
			return nil
		}
	}
}
