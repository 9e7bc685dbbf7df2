package keys

// Key material compiled into the signing device.
//
// XXX: replace with the device key before flashing a production build.

const deviceModulus = "" +
	"a7ef5de40273e5e3c8ce87faa9438e21da0517f4129c475e1d5e242504e24213" +
	"b7fceb5a15bbcbc29991d1621f464704dd6b0ca5195821bc8e874c1e619b0e0e" +
	"acb94995e2bc874de1f8ab187c43655c802f8306c8d079fdea47958527484c96" +
	"54f81c360565797cf63323a2a91a5b36d93fde35bc5aa15ddbe1f05c54214765" +
	"73bb30ef01ef307e31d7b986e157699f27e1f521877dc0f3b119dde845544745" +
	"314bf7802e72433bfc3b8786f78898f02684e97fd15dfa4b84164d92f15e2389" +
	"dca2399488b14cd37d8628e8dd8f4bdedc8ca3522a45e61c6146aeea2afe0777" +
	"d6ec2c6a8d237d110e95eecaf5e884f0c57021c5ea76471f9c96af640dffbf46" +
	"d14716c21aa9beb84a7e98f247214d536c587393838f8b4f4e7a175c674b9e98" +
	"04b412186e049f4559352730952504d7493aff72a03d339d887528a352da2458" +
	"3ea547dd1b29de60a3497dbd650d8eff741656c76f2025adde8aca6efb0a25fb" +
	"2b82b3d2afc9f275b3e55ac23e73f9a766a65c4e8483e4e9556f7f533a0c4b58" +
	"33e731c50492fa801284f9ff9dece9287ab5a1c777ee678129c3869a496e50d4" +
	"76193d98ee8f955916aac132aefaef7218c114f348ec243690705efc56feff06" +
	"78a34d1395f678a759e9455db06ae364a9d6a41dc50a04e55496cff4c31363c8" +
	"ebf6e704d0d4925304e845809019fa1454044dfecb5c67fa2f45fa1c5f2ec553"

const devicePrivateExponent = "" +
	"949fdad79d781720362adadb738c0f315473a79462181f6d62ce5b6ccbdab6a2" +
	"1ef65f107625a31a91b124bf1370ae0fd72a13a1d64152723f2deca702b92882" +
	"c248a5a05a6f81cbe2cea215e47bfd2c15627732bced0cda34caafc08d588637" +
	"91f1977e13de8fdb91450727c1434b30caaaa4ada80a09c03886c8a3dded29f3" +
	"d6adf78bbf8981c05dba4f3ed915f4ab5fafb1b3bfe702aa69b5bbd801eba9bb" +
	"c9fa328c260f080401a269ba803e4b2456e2d08847b2457f29e2573b52147f9d" +
	"563fd877e5560ce92bb15d6962149d101adef8f811e394d8cf1ab0591c3d803c" +
	"8660b49a8458c12a245f7b5bf2b09b5f3f4d9306470ff0b8406c77c334448071" +
	"ec35194d50012ae99c3b63a7a04088a191b81f95bc96c48a949127912c1fdb30" +
	"115ef8af35b938de210ee4fd6f4afda60bdad167078c731db83d0cff88ff0c19" +
	"8d5f079326e5257b07153375e80d17aaf4da4a3746450ef3a39d7c78cd6738d8" +
	"c29eead3cad22b57caf6648882273decc64ce62602cb74efea5bd9fb2213796d" +
	"05e20608125ce2689095e11573b1adaa703e24e9b5dbed44d4b1646bc3414d84" +
	"820bd56a7c3764dfec49243814e6f73654d91026b41319fc4fcff51589e37eba" +
	"15cbec3a46dfda1008361f1735af4db35b4637e5751c474ee2b2b1c9c5cbba26" +
	"c24d4afae4074e2fa250ad49525ad600fd992ffff99d6560472e54a2cd577001"

// 2048-bit key used by regression vectors.

const testModulus = "" +
	"b2c46ec008f0ed915c46c1ff6275fba260d73e4f33b0e13e6dfb9b09c99cabf8" +
	"8b026837bbb176fb533b11f2342d46dc9cf0f6919883ff5d597664d0ca5978a4" +
	"b53b4ad737f1d79ff2fbc58e3d29748cc6c978fec3f39056e1bdacb31c945d0c" +
	"633127150b4b3c29cee44e3a625c7d5fa1281eace4c6cfdf0b594e74a98c6905" +
	"829b655a16cc368add252bceead5f855042765e9845bc87fb454013972b02d89" +
	"0788042e2f7675c0fad6b320033d31ecfc66e142abd38a98738183dd458c43ae" +
	"4f6d4db5a4beaba8ba47969f593eaf31d23b9a5fad960e9ee44418acffb6c2b9" +
	"fb07dd3341d33a33fc27c36e81caaa0ec88cabffb078215a3a46ab72645fe937"

const testPrivateExponent = "" +
	"20ad9fc122e147cc269e18a0629346a86c236c9475d2839a31e8a872a5942a2b" +
	"88ddabc7645c106fe8cb0780cae0ebef30112c41792bc7e67c9013e5c6d78c22" +
	"2faee3036c8a9cebf432e9ee12681d920e548df5a44445c25c099c2431b93d39" +
	"2278bdb82f1455af1ecec52e0f04f13625f37b88075a006db9595dea1d84393e" +
	"2666eaefcb22df311a115412434cfdd4c44f58fb8e0b64cc12f3497bf0a2caf4" +
	"67afef8f5f8a2b0e3fc76280f5b899c31b0d523110ddd54c6ffea82f70c3e865" +
	"b59b4c41219e5b396afbbb8573410ead05d1deda340e295527b7845b93eabe2c" +
	"d7a0854e6357a73dd2a675bf2062917d9f2cb0078188580884545d55c6ba5d21"
